package core

import (
	"testing"
)

func TestSplitFunction(t *testing.T) {
	tests := []struct {
		full      string
		wantPkg   string
		wantClass string
		wantType  string
		wantFn    string
	}{
		{
			full:      "github.com/a/b.(*Logger).Log",
			wantPkg:   "github.com/a/b",
			wantClass: "github.com/a/b.(*Logger)",
			wantType:  "->",
			wantFn:    "Log",
		},
		{
			full:      "github.com/a/b.Level.String",
			wantPkg:   "github.com/a/b",
			wantClass: "github.com/a/b.Level",
			wantType:  "->",
			wantFn:    "String",
		},
		{
			full:    "github.com/a/b.Run",
			wantPkg: "github.com/a/b",
			wantFn:  "github.com/a/b.Run",
		},
		{
			full:    "main.main.func1",
			wantPkg: "main",
			wantFn:  "main.main.func1",
		},
		{
			full:    "github.com/a/b.init.0",
			wantPkg: "github.com/a/b",
			wantFn:  "github.com/a/b.init.0",
		},
		{
			full:      "gopkg.in/x.v1/sub.(*T).M.func2",
			wantPkg:   "gopkg.in/x.v1/sub",
			wantClass: "gopkg.in/x.v1/sub.(*T)",
			wantType:  "->",
			wantFn:    "M.func2",
		},
		{
			full: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			pkg, class, typ, fn := splitFunction(tt.full)
			if pkg != tt.wantPkg || class != tt.wantClass || typ != tt.wantType || fn != tt.wantFn {
				t.Errorf("splitFunction(%q) = (%q, %q, %q, %q), want (%q, %q, %q, %q)",
					tt.full, pkg, class, typ, fn, tt.wantPkg, tt.wantClass, tt.wantType, tt.wantFn)
			}
		})
	}
}

func TestFrame_QualifiedName(t *testing.T) {
	f := Frame{Class: "app.(*Server)", Type: "->", Function: "Serve"}
	if got := f.QualifiedName(); got != "app.(*Server)->Serve" {
		t.Errorf("QualifiedName() = %v", got)
	}
	if got := (Frame{Function: "main.main"}).QualifiedName(); got != "main.main" {
		t.Errorf("QualifiedName() = %v", got)
	}
	if got := (Frame{}).QualifiedName(); got != "" {
		t.Errorf("QualifiedName() of empty frame = %q", got)
	}
}
