package dto

// Latticefile is the on-disk shape of a test-matrix descriptor.
// It uses "mapstructure" tags so YAML and JSON documents decode the same way.
type Latticefile struct {
	// WorkDir is where commands run, relative to the latticefile. "changedir" is accepted too.
	WorkDir   string `json:"workdir,omitempty" mapstructure:"workdir"`
	ChangeDir string `json:"changedir,omitempty" mapstructure:"changedir"`

	InstallCommand string            `json:"install_command,omitempty" mapstructure:"install_command"`
	PassEnv        []string          `json:"passenv,omitempty" mapstructure:"passenv"`
	SetEnv         map[string]string `json:"setenv,omitempty" mapstructure:"setenv"`

	Axes    map[string][]string `json:"axes,omitempty" mapstructure:"axes"`
	EnvList []string            `json:"envlist,omitempty" mapstructure:"envlist"`

	Groups map[string]Group `json:"groups" mapstructure:"groups"`
	Modes  map[string]Mode  `json:"modes,omitempty" mapstructure:"modes"`
	Lint   *Lint            `json:"lint,omitempty" mapstructure:"lint"`
}

// Group is a test group entry.
type Group struct {
	Description string            `json:"description,omitempty" mapstructure:"description"`
	Deps        []string          `json:"deps,omitempty" mapstructure:"deps"`
	Commands    []string          `json:"commands,omitempty" mapstructure:"commands"`
	PassEnv     []string          `json:"passenv,omitempty" mapstructure:"passenv"`
	SetEnv      map[string]string `json:"setenv,omitempty" mapstructure:"setenv"`
	Compose     []string          `json:"compose,omitempty" mapstructure:"compose"`
}

// Mode is a packaging mode entry.
type Mode struct {
	Install  []string `json:"install,omitempty" mapstructure:"install"`
	Commands []string `json:"commands,omitempty" mapstructure:"commands"`
	Variants []string `json:"variants,omitempty" mapstructure:"variants"`
}

// Lint is the lint rule entry.
type Lint struct {
	Include []string `json:"include,omitempty" mapstructure:"include"`
	Exclude []string `json:"exclude,omitempty" mapstructure:"exclude"`
	Ignore  []string `json:"ignore,omitempty" mapstructure:"ignore"`
}
