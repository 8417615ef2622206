package domain

import "fmt"

// Hudson class markers used to locate actions in a build's action list.
// The list is an order-independent bag; absence of any entry is normal.
const (
	causeActionClass      = "hudson.model.CauseAction"
	userIDCauseClass      = "hudson.model.Cause$UserIdCause"
	parametersActionClass = "hudson.model.ParametersAction"

	// BranchParameter is the build parameter carrying the git branch.
	BranchParameter = "GIT_BRANCH"
)

// Action is one entry of a build's untyped action list. Only the fields
// needed for builder/branch extraction are decoded.
type Action struct {
	Class      string      `json:"_class"`
	Causes     []Cause     `json:"causes"`
	Parameters []Parameter `json:"parameters"`
}

// Cause is one build cause within a cause action.
type Cause struct {
	Class    string `json:"_class"`
	UserName string `json:"userName"`
	UserID   string `json:"userId"`
}

// Parameter is one build parameter within a parameters action.
type Parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ExtractBuilder returns the display name of the user who started the build,
// falling back to the user id. Empty when the build was not user-initiated.
func ExtractBuilder(actions []Action) string {
	for _, a := range actions {
		if a.Class != causeActionClass {
			continue
		}
		for _, c := range a.Causes {
			if c.Class != userIDCauseClass {
				continue
			}
			if c.UserName != "" {
				return c.UserName
			}
			return c.UserID
		}
	}
	return ""
}

// ExtractBranch returns the value of the git-branch build parameter,
// coerced to a string. Empty when the parameter is missing.
func ExtractBranch(actions []Action) string {
	for _, a := range actions {
		if a.Class != parametersActionClass {
			continue
		}
		for _, p := range a.Parameters {
			if p.Name != BranchParameter {
				continue
			}
			if p.Value == nil {
				return ""
			}
			return fmt.Sprint(p.Value)
		}
	}
	return ""
}
