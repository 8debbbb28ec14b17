package dto

type HookInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type CommandInfo struct {
	ID              string
	Title           string
	Description     string
	Kind            string
	InputSchemaJSON string
	TimeoutMS       int
}

type ExecuteInput struct {
	HookName  string
	CommandID string
	InputJSON string
	SessionID string
	DataPath  string
	Cwd       string
	Env       map[string]string
}

type ExecuteOutput struct {
	HookName   string
	CommandID  string
	Stdout     string
	Stderr     string
	OutputJSON string
	ExitCode   int
}

type SessionSavedEvent struct {
	SessionID   string
	DataPath    string
	PayloadJSON string
}

type DispatchResult struct {
	HookName string
	Error    string
}
