package storeapi

// AdminRole is the back-office role attached to an admin identity.
type AdminRole string

const (
	RoleAdmin   AdminRole = "admin"
	RoleManager AdminRole = "manager"
)

// AdminUser is the persisted admin identity record (the "adminUser" slot).
type AdminUser struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  AdminRole `json:"role"`
}

// TokenPair is the credential pair issued by POST /token/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Customer is the authenticated storefront account.
type Customer struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`

	Address *Address `json:"address,omitempty"`
}

// Address is a customer shipping address.
type Address struct {
	ID           int64  `json:"id,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default,omitempty"`
}
