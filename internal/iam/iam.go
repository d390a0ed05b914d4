package iam

// Credentials holds what scanctl needs to authenticate against the scan service. Either Token is set, or a token
// is minted from Username and Password.
type Credentials struct {
	URL      string `yaml:"url,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// HasToken checks whether a ready-to-use token is present.
func (c *Credentials) HasToken() bool {
	return c.Token != ""
}

// CanMint checks whether both username and password are set, which is required to mint a new token.
func (c *Credentials) CanMint() bool {
	return c.Username != "" && c.Password != ""
}

// IsSet checks whether the credentials are sufficient for either form of authentication.
func (c *Credentials) IsSet() bool {
	return c.HasToken() || c.CanMint()
}
