package schema

import (
	"strings"
	"testing"
)

func TestValidateFile_MissingKey(t *testing.T) {
	nodes := []*Node{{MultiType: []string{TypeString}}}
	errs := ValidateFile(nodes, "app.yml.json")
	if len(errs) == 0 {
		t.Fatal("expected an error for missing key")
	}
}

func TestValidateFile_ObjectAndListMutuallyExclusive(t *testing.T) {
	nodes := []*Node{{Key: "x", MultiType: []string{TypeObject, TypeList}, ItemMultiType: []string{TypeString}}}
	errs := ValidateFile(nodes, "app.yml.json")
	found := false
	for _, e := range errs {
		if strings.Contains(e, "cannot contain both") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected object/list exclusivity error, got %v", errs)
	}
}

func TestValidateFile_ListRequiresItemMultiType(t *testing.T) {
	nodes := []*Node{{Key: "x", MultiType: []string{TypeList}}}
	errs := ValidateFile(nodes, "app.yml.json")
	if len(errs) == 0 {
		t.Fatal("expected an error for list missing item_multi_type")
	}
}

func TestValidateFile_INIRootMustBeAllowedKey(t *testing.T) {
	nodes := []*Node{{Key: "not_a_root", MultiType: []string{TypeObject}}}
	errs := ValidateFile(nodes, "hosts.ini.json")
	found := false
	for _, e := range errs {
		if strings.Contains(e, "invalid INI root key") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected invalid INI root key error, got %v", errs)
	}
}

func TestValidateFile_GroupsChildRequiresHostname(t *testing.T) {
	nodes := []*Node{
		{
			Key:       "groups",
			MultiType: []string{TypeObject},
			Children: []*Node{
				{
					Key:           "webservers",
					MultiType:     []string{TypeList},
					ItemMultiType: []string{TypeObject},
					Children: []*Node{
						{Key: "region", MultiType: []string{TypeString}},
					},
				},
			},
		},
	}
	errs := ValidateFile(nodes, "hosts.ini.json")
	found := false
	for _, e := range errs {
		if strings.Contains(e, "hostname") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing hostname child error, got %v", errs)
	}
}

func TestValidateFile_ValidINIDocumentHasNoErrors(t *testing.T) {
	nodes := []*Node{
		{
			Key:       "groups",
			MultiType: []string{TypeObject},
			Children: []*Node{
				{
					Key:           "webservers",
					MultiType:     []string{TypeList},
					ItemMultiType: []string{TypeObject},
					Children: []*Node{
						{Key: "hostname", MultiType: []string{TypeString}},
					},
				},
			},
		},
	}
	errs := ValidateFile(nodes, "hosts.ini.json")
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}
