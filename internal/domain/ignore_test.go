package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/testforge/internal/model"
)

func TestParseIgnoreDirective(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		all     bool
		names   []string
		ok      bool
	}{
		{name: "line comment", comment: "// testforge:ignore", all: true, ok: true},
		{name: "doc comment", comment: "  /// testforge:ignore", all: true, ok: true},
		{name: "block comment", comment: "/* testforge:ignore */", all: true, ok: true},
		{name: "named", comment: "// testforge:ignore Place, cancel ", names: []string{"place", "cancel"}, ok: true},
		{name: "only commas", comment: "// testforge:ignore , ,", all: true, ok: true},
		{name: "other comment", comment: "// ignore this", ok: false},
		{name: "not a comment", comment: "var x = 1; // testforge:ignore", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := parseIgnoreDirective(tt.comment)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.all, rule.all)

			for _, name := range tt.names {
				assert.True(t, rule.ignores(name))
			}
		})
	}
}

func TestIgnoreRule_CaseInsensitive(t *testing.T) {
	rule, ok := parseIgnoreDirective("// testforge:ignore GetById")
	require.True(t, ok)

	assert.True(t, rule.ignores("GETBYID"))
	assert.False(t, rule.ignores("Total"))
	assert.False(t, ignoreRule{}.ignores("Total"))
}

func TestApplyIgnoreDirectives(t *testing.T) {
	features := m.Features{
		TypeName: "OrderService",
		Methods: []m.MethodSignature{
			{Name: "Place"},
			{Name: "Cancel"},
			{Name: "Total"},
		},
	}

	tests := []struct {
		name    string
		text    string
		keep    bool
		methods []string
	}{
		{
			name:    "no directives",
			text:    "public class OrderService {}",
			keep:    true,
			methods: []string{"Place", "Cancel", "Total"},
		},
		{
			name: "file header skips the unit",
			text: "// testforge:ignore\nusing System;\n\nnamespace Shop;\n\npublic class OrderService {}\n",
			keep: false,
		},
		{
			name:    "named methods in header",
			text:    "// testforge:ignore place, TOTAL\nnamespace Shop;\npublic class OrderService {}\n",
			keep:    true,
			methods: []string{"Cancel"},
		},
		{
			name: "named methods in body",
			text: `namespace Shop;
public class OrderService
{
    // testforge:ignore Cancel
    public void Place() {}
}`,
			keep:    true,
			methods: []string{"Place", "Total"},
		},
		{
			name: "bare directive above a member",
			text: `namespace Shop;
public class OrderService
{
    // testforge:ignore

    [Obsolete]
    public decimal Total(int n) => n;
}`,
			keep:    true,
			methods: []string{"Place", "Cancel"},
		},
		{
			name: "bare directive in body is not file level",
			text: `namespace Shop;
public class OrderService
{
    // testforge:ignore
    private int _count;
}`,
			keep:    true,
			methods: []string{"Place", "Cancel", "Total"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := ApplyIgnoreDirectives(tt.text, features)
			require.Equal(t, tt.keep, keep)

			if !keep {
				return
			}

			names := make([]string, 0, len(got.Methods))
			for _, method := range got.Methods {
				names = append(names, method.Name)
			}

			assert.Equal(t, tt.methods, names)
		})
	}
}
