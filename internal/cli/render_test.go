package cli

import (
	"reflect"
	"testing"

	"github.com/matzehuels/missiongraph/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " json, ,dot ", []string{"json", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid all", []string{"json", "dot", "svg", "png", "pdf"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "missions/launch.yaml", "missions/launch"},
		{"out.svg", "launch.yaml", "out"},
		{"out.pdf", "launch.yaml", "out"},
		{"out.txt", "launch.yaml", "out.txt"},
		{"out", "launch.yaml", "out"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format string
		count  int
		want   string
	}{
		{"single format keeps output", "graph.image", "svg", 1, "graph.image"},
		{"single format from input", "", "svg", 1, "launch.svg"},
		{"multiple formats share base", "out.svg", "png", 2, "out.png"},
		{"stdout", "-", "dot", 1, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, "launch.yaml", tt.format, tt.count); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mission string
		want    string
		wantErr bool
	}{
		{"file", []string{"launch.yaml"}, "", "launch.yaml", false},
		{"mission", nil, "launch", "launch", false},
		{"both", []string{"launch.yaml"}, "launch", "", true},
		{"neither", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inputArg(tt.args, tt.mission)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("inputArg() = %q, %v; want %q, wantErr %v", got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestTrimLayoutSuffix(t *testing.T) {
	if got := trimLayoutSuffix("out/launch.layout.json"); got != "out/launch" {
		t.Errorf("trimLayoutSuffix() = %q, want out/launch", got)
	}
	if got := trimLayoutSuffix("custom.json"); got != "custom.json" {
		t.Errorf("trimLayoutSuffix() = %q, want unchanged", got)
	}
}
