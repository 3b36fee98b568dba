package cmd

import "testing"

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "devflow" {
		t.Errorf("expected Use to be 'devflow', got %q", cmd.Use)
	}
}

func TestNewCmdProcess(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdProcess(opts)
	if cmd == nil {
		t.Fatal("NewCmdProcess() returned nil")
	}
	if cmd.Use != "process <owner/repo> <issue-number>" {
		t.Errorf("unexpected Use %q", cmd.Use)
	}
}

func TestNewCmdProject(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdProject(opts)
	if cmd == nil {
		t.Fatal("NewCmdProject() returned nil")
	}
	if cmd.Use != "project" {
		t.Errorf("expected Use to be 'project', got %q", cmd.Use)
	}
	if len(cmd.Commands()) == 0 {
		t.Error("project command should have subcommands")
	}
}

func TestNewCmdWorkflow(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdWorkflow(opts)
	if cmd == nil {
		t.Fatal("NewCmdWorkflow() returned nil")
	}
	if cmd.Use != "workflow" {
		t.Errorf("expected Use to be 'workflow', got %q", cmd.Use)
	}
}

func TestNewCmdMilestones(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdMilestones(opts)
	if cmd == nil {
		t.Fatal("NewCmdMilestones() returned nil")
	}
	if cmd.Use != "milestones" {
		t.Errorf("expected Use to be 'milestones', got %q", cmd.Use)
	}
}

func TestNewCmdConflicts(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdConflicts(opts)
	if cmd == nil {
		t.Fatal("NewCmdConflicts() returned nil")
	}
	if flag := cmd.Flags().Lookup("target"); flag == nil {
		t.Error("conflicts command should have a --target flag")
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	// Just verify it doesn't panic - version info is in package vars
}

func TestOptions(t *testing.T) {
	opts := &Options{
		Verbosity:       2,
		Organization:    "DevBusinessHub",
		ContinueOnError: true,
		TargetBranch:    "main",
	}
	if opts.Organization != "DevBusinessHub" {
		t.Errorf("expected Organization to be 'DevBusinessHub', got %q", opts.Organization)
	}
}
