package session

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "LOGIN ACC1001 mypassword", []string{"LOGIN", "ACC1001", "mypassword"}},
		{"quoted args", `REGISTER "Ivanov Ivan" "1990-05-15" "4510123456" "password1"`,
			[]string{"REGISTER", "Ivanov Ivan", "1990-05-15", "4510123456", "password1"}},
		{"mixed quoting", `TRANSFER ACC1_SAV_1 ACC2_SAV_1 100 "rent"`,
			[]string{"TRANSFER", "ACC1_SAV_1", "ACC2_SAV_1", "100", "rent"}},
		{"collapses repeated spaces", "HELP   ",
			[]string{"HELP"}},
		{"empty line", "", nil},
		{"unclosed quote runs to end", `REGISTER "Ivanov Ivan`,
			[]string{"REGISTER", "Ivanov Ivan"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Tokenize(c.line)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", c.line, got, c.want)
			}
		})
	}
}
