package adapter

import (
	"reflect"
	"testing"
)

func TestLauncherCommandFor(t *testing.T) {
	const url = "https://example.com/?a=1&b=2"

	tests := []struct {
		name     string
		command  string
		args     []string
		goos     string
		wantName string
		wantArgs []string
	}{
		{
			name:     "linux default",
			goos:     "linux",
			wantName: "xdg-open",
			wantArgs: []string{url},
		},
		{
			name:     "macOS default",
			goos:     "darwin",
			wantName: "open",
			wantArgs: []string{url},
		},
		{
			name:     "windows default",
			goos:     "windows",
			wantName: "rundll32",
			wantArgs: []string{"url.dll,FileProtocolHandler", url},
		},
		{
			name:     "configured browser",
			command:  "sh",
			args:     []string{"--new-window"},
			goos:     "linux",
			wantName: "sh",
			wantArgs: []string{"--new-window", url},
		},
		{
			name:     "configured app missing from PATH on macOS",
			command:  "Definitely Not A Browser",
			args:     []string{"--incognito"},
			goos:     "darwin",
			wantName: "open",
			wantArgs: []string{"-a", "Definitely Not A Browser", "--args", "--incognito", url},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLauncher(tt.command, tt.args, nil)
			l.goos = tt.goos

			name, args := l.commandFor(url)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

func TestLauncherWindowsSkipsShell(t *testing.T) {
	l := NewLauncher("", nil, nil)
	l.goos = "windows"

	const payload = "https://example.com/&calc.exe"
	name, args := l.commandFor(payload)
	if name == "cmd" || name == "powershell" {
		t.Fatalf("name = %q, want a launcher without shell parsing", name)
	}
	if len(args) == 0 || args[len(args)-1] != payload {
		t.Errorf("args = %q, want payload as one final argument", args)
	}
	for _, a := range args[:len(args)-1] {
		if a == "/c" || a == "start" {
			t.Errorf("args = %q, contain shell directives", args)
		}
	}
}

func TestLauncherDoesNotMutateArgs(t *testing.T) {
	args := make([]string, 1, 4)
	args[0] = "--new-tab"
	l := NewLauncher("sh", args, nil)
	l.goos = "linux"

	l.commandFor("https://a.example")
	_, second := l.commandFor("https://b.example")

	if second[len(second)-1] != "https://b.example" || len(second) != 2 {
		t.Errorf("args = %q", second)
	}
	if len(args) != 1 {
		t.Errorf("configured args changed: %q", args)
	}
}
