package entities

import "fmt"

// Credentials holds the portal login of the operator running the workflow
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// String - masks the password so credentials never print in plaintext
func (c Credentials) String() string {
	return fmt.Sprintf("%s/%s", c.Username, mask(c.Password))
}

// GoString - masks the password for %#v
func (c Credentials) GoString() string {
	return fmt.Sprintf("entities.Credentials{Username:%q, Password:%q}", c.Username, mask(c.Password))
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
