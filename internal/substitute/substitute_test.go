package substitute

import (
	"testing"

	"github.com/confctl/confctl/internal/schema"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name     string
		template string
		env      map[string]string
		expected string
	}{
		{"single var resolved", "{ENV}/hosts.ini", map[string]string{"ENV": "prod"}, "prod/hosts.ini"},
		{"multiple vars resolved", "{REGION}/{ENV}/app.yml", map[string]string{"REGION": "eu", "ENV": "stage"}, "eu/stage/app.yml"},
		{"no placeholder is unaffected", "static/path", map[string]string{"ENV": "prod"}, "static/path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Path(tt.template, tt.env); got != tt.expected {
				t.Errorf("Path() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected string
	}{
		{"dollar-brace var resolved", "host=${HOST}", map[string]string{"HOST": "db1"}, "host=db1"},
		{"bare brace form untouched", "host={HOST}", map[string]string{"HOST": "db1"}, "host={HOST}"},
		{"unresolved left as-is", "host=${MISSING}", map[string]string{}, "host=${MISSING}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Content(tt.content, tt.env); got != tt.expected {
				t.Errorf("Content() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDefaultValues_RecursesThroughChildrenAndNestedStructures(t *testing.T) {
	nodes := []*schema.Node{
		{
			Key:          "db",
			DefaultValue: "${DB_HOST}",
			Children: []*schema.Node{
				{
					Key: "opts",
					DefaultValue: map[string]any{
						"url":  "${DB_HOST}/opts",
						"tags": []any{"${ENV}", "static"},
					},
				},
			},
		},
	}
	env := map[string]string{"DB_HOST": "db1", "ENV": "prod"}

	DefaultValues(nodes, env)

	if nodes[0].DefaultValue != "db1" {
		t.Errorf("top level DefaultValue = %v, want db1", nodes[0].DefaultValue)
	}
	opts := nodes[0].Children[0].DefaultValue.(map[string]any)
	if opts["url"] != "db1/opts" {
		t.Errorf("nested map value = %v, want db1/opts", opts["url"])
	}
	tags := opts["tags"].([]any)
	if tags[0] != "prod" {
		t.Errorf("nested slice value = %v, want prod", tags[0])
	}
}
