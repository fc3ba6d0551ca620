package app

// ApiAccessKey is a data type for storing the API access key, used for DI.
type ApiAccessKey string

// RegistryCredentials is a credential pair for the package registry.
// It is injected from the process environment, scoped to the publisher, and never persisted.
type RegistryCredentials struct {
	Username string
	Password string
}
