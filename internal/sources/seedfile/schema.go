package seedfile

// SeedConfig is the top-level structure of the seed YAML file.
type SeedConfig struct {
	Services []SeedService `yaml:"services"`
}

// SeedService is one draft entry in the seed file. Owner may be left
// empty; it defaults to the session's username on import.
type SeedService struct {
	Name      string `yaml:"name"`
	PublicIP  string `yaml:"public_ip"`
	PrivateIP string `yaml:"private_ip"`
	Owner     string `yaml:"owner,omitempty"`
}
