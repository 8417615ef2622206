package domain

import "testing"

func TestExtractBuilder_UserNamePreferred(t *testing.T) {
	actions := []Action{
		{Class: "hudson.model.ParametersAction"},
		{Class: "hudson.model.CauseAction", Causes: []Cause{
			{Class: "hudson.triggers.SCMTrigger$SCMTriggerCause"},
			{Class: "hudson.model.Cause$UserIdCause", UserName: "Dave", UserID: "dave"},
		}},
	}
	if got := ExtractBuilder(actions); got != "Dave" {
		t.Errorf("expected Dave, got %q", got)
	}
}

func TestExtractBuilder_FallsBackToUserID(t *testing.T) {
	actions := []Action{
		{Class: "hudson.model.CauseAction", Causes: []Cause{
			{Class: "hudson.model.Cause$UserIdCause", UserID: "dave"},
		}},
	}
	if got := ExtractBuilder(actions); got != "dave" {
		t.Errorf("expected dave, got %q", got)
	}
}

func TestExtractBuilder_AbsentCauseYieldsEmpty(t *testing.T) {
	if got := ExtractBuilder(nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	actions := []Action{{Class: "hudson.model.CauseAction"}}
	if got := ExtractBuilder(actions); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestExtractBranch_CoercesValue(t *testing.T) {
	actions := []Action{
		{Class: "hudson.model.CauseAction"},
		{Class: "hudson.model.ParametersAction", Parameters: []Parameter{
			{Name: "DEPLOY", Value: true},
			{Name: "GIT_BRANCH", Value: "origin/main"},
		}},
	}
	if got := ExtractBranch(actions); got != "origin/main" {
		t.Errorf("expected origin/main, got %q", got)
	}
}

func TestExtractBranch_MissingParameterYieldsEmpty(t *testing.T) {
	actions := []Action{
		{Class: "hudson.model.ParametersAction", Parameters: []Parameter{
			{Name: "GIT_BRANCH", Value: nil},
		}},
	}
	if got := ExtractBranch(actions); got != "" {
		t.Errorf("expected empty for nil value, got %q", got)
	}
	if got := ExtractBranch([]Action{{Class: "hudson.model.ParametersAction"}}); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestStageNodeTerminal(t *testing.T) {
	cases := []struct {
		node StageNode
		want bool
	}{
		{StageNode{State: StateFinished, Result: ResultFailure}, true},
		{StageNode{State: StateFinished, Result: ResultAborted}, true},
		{StageNode{State: StateFinished, Result: ResultUnstable}, true},
		{StageNode{State: StateFinished, Result: ResultSuccess}, false},
		{StageNode{State: StateRunning, Result: ResultFailure}, false},
		{StageNode{State: StateNotExecuted}, false},
	}
	for _, c := range cases {
		if got := c.node.Terminal(); got != c.want {
			t.Errorf("Terminal(%+v) = %v, want %v", c.node, got, c.want)
		}
	}
}
