package backbone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/lang"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	js := lang.Languages["javascript"]
	require.NotNil(t, js, "javascript language not registered")

	tree, err := js.Parse(context.Background(), js.NewParser(), []byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	return ast.Convert(tree.RootNode(), []byte(source))
}

// firstCall returns the outermost call expression in source.
func firstCall(t *testing.T, source string) *ast.CallExpression {
	t.Helper()
	var found *ast.CallExpression
	ast.Inspect(parse(t, source), func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if call, ok := n.(*ast.CallExpression); ok {
			found = call
			return false
		}
		return true
	})
	require.NotNil(t, found, "no call expression in %q", source)
	return found
}

// propertyValue returns the value of the first object property called key.
func propertyValue(t *testing.T, source, key string) ast.Node {
	t.Helper()
	var found ast.Node
	ast.Inspect(parse(t, source), func(n ast.Node) bool {
		if p, ok := n.(*ast.Property); ok && found == nil {
			if name, ok := ast.PropertyName(p); ok && name == key {
				found = p.Value
			}
		}
		return found == nil
	})
	require.NotNil(t, found, "no property %q in %q", key, source)
	return found
}

func TestDefaultRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source     string
		model      bool
		view       bool
		collection bool
	}{
		{"Backbone.Model.extend({});", true, false, false},
		{"Backbone.View.extend({});", false, true, false},
		{"Backbone.Collection.extend({});", false, false, true},
		{"Backbone.Router.extend({});", false, false, false},
		{"Backbone.Model.create({});", false, false, false},
		{"Other.Model.extend({});", false, false, false},
		{"Backbone.Model['extend']({});", false, false, false},
		{"this.Model.extend({});", false, false, false},
		{"(Backbone.View).extend({});", false, true, false},
		{"Backbone.extend({});", false, false, false},
		{"new Backbone.Model.extend({});", false, false, false},
		{"new Backbone.View.extend({});", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()
			call := firstCall(t, tt.source)
			assert.Equal(t, tt.model, IsModel(call, nil), "IsModel")
			assert.Equal(t, tt.view, IsView(call, nil), "IsView")
			assert.Equal(t, tt.collection, IsCollection(call, nil), "IsCollection")
			assert.Equal(t, tt.model || tt.view || tt.collection, IsAny(call, nil), "IsAny")
		})
	}
}

func TestNamespacedSettings(t *testing.T) {
	t.Parallel()

	s := &Settings{Model: []string{"App.Model"}}

	call := firstCall(t, "App.Model.extend({x: 1});")
	assert.True(t, IsModel(call, s))
	assert.False(t, IsView(call, s))
	assert.False(t, IsCollection(call, s))
	assert.True(t, IsAny(call, s))

	other := firstCall(t, "App.Thing.extend({});")
	assert.False(t, IsModel(other, s))
	assert.False(t, IsAny(other, s))
}

func TestNamespacePrefixSharedAcrossRoles(t *testing.T) {
	t.Parallel()

	// App is only registered for models, but App.View still reaches the
	// default View signature through its postfix.
	s := &Settings{Model: []string{"App.Model"}}
	call := firstCall(t, "App.View.extend({});")

	assert.True(t, IsView(call, s))
	assert.False(t, IsModel(call, s))
}

func TestBarePrefixSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      *Settings
		role   Role
		source string
	}{
		{"collection", &Settings{Collection: []string{"Foo"}}, Collection, "Foo.extend({});"},
		{"model", &Settings{Model: []string{"MyModel"}}, Model, "MyModel.extend({ defaults: {} });"},
		{"view", &Settings{View: []string{"BaseView"}}, View, "var V = BaseView.extend({});"},
	}

	checks := map[Role]func(ast.Node, *Settings) bool{
		Model:      IsModel,
		View:       IsView,
		Collection: IsCollection,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			call := firstCall(t, tt.source)
			for role, check := range checks {
				assert.Equal(t, role == tt.role, check(call, tt.s), "role %s", role)
			}
			assert.True(t, IsAny(call, tt.s))

			got, ok := RoleOf(call, tt.s)
			require.True(t, ok)
			assert.Equal(t, tt.role, got)
		})
	}
}

func TestUnregisteredPrefix(t *testing.T) {
	t.Parallel()

	call := firstCall(t, "MyThing.extend({});")
	assert.False(t, IsAny(call, &Settings{}))
	assert.False(t, IsModel(call, &Settings{}))

	_, ok := RoleOf(call, nil)
	assert.False(t, ok)
}

func TestBarePrefixDoesNotMatchMember(t *testing.T) {
	t.Parallel()

	// Foo is a known prefix, but a bare signature only matches Foo itself.
	s := &Settings{Collection: []string{"Foo"}}
	call := firstCall(t, "Foo.Bar.extend({});")

	assert.False(t, IsCollection(call, s))
	assert.False(t, IsAny(call, s))
}

func TestCaseSensitive(t *testing.T) {
	t.Parallel()

	assert.False(t, IsModel(firstCall(t, "backbone.Model.extend({});"), nil))
	assert.False(t, IsModel(firstCall(t, "Backbone.model.extend({});"), nil))
	assert.False(t, IsModel(firstCall(t, "Backbone.Model.Extend({});"), nil))
}

func TestNonCallNodes(t *testing.T) {
	t.Parallel()

	prog := parse(t, "var x = Backbone.Model;")
	ast.Inspect(prog, func(n ast.Node) bool {
		assert.False(t, IsAny(n, nil))
		assert.False(t, IsModel(n, nil))
		return true
	})
	assert.False(t, IsAny(nil, nil))
	assert.False(t, IsView(nil, nil))
}

func TestMalformedCallee(t *testing.T) {
	t.Parallel()

	missingObject := &ast.CallExpression{
		Callee: &ast.MemberExpression{Property: &ast.Identifier{Name: "extend"}},
	}
	missingCallee := &ast.CallExpression{}

	for _, n := range []ast.Node{missingObject, missingCallee} {
		assert.NotPanics(t, func() {
			assert.False(t, IsAny(n, nil))
			assert.False(t, IsModel(n, nil))
			assert.False(t, IsView(n, nil))
			assert.False(t, IsCollection(n, nil))
		})
	}
}

func TestHandBuiltDefinition(t *testing.T) {
	t.Parallel()

	call := &ast.CallExpression{
		Callee: &ast.MemberExpression{
			Object: &ast.MemberExpression{
				Object:   &ast.Identifier{Name: "Backbone"},
				Property: &ast.Identifier{Name: "Collection"},
			},
			Property: &ast.Identifier{Name: "extend"},
		},
		Arguments: []ast.Node{&ast.ObjectExpression{}},
	}

	assert.True(t, IsCollection(call, nil))
	assert.True(t, IsAny(call, nil))
	assert.False(t, IsModel(call, nil))
}

func TestIsAnyAgreesWithRoles(t *testing.T) {
	t.Parallel()

	s := &Settings{
		Model:      []string{"App.Model", "Base"},
		View:       []string{"Ui.Panel"},
		Collection: []string{"List"},
	}
	sources := []string{
		"App.Model.extend({});",
		"App.Panel.extend({});",
		"Ui.Panel.extend({});",
		"Ui.Other.extend({});",
		"Base.extend({});",
		"List.extend({});",
		"Nope.extend({});",
		"Backbone.View.extend({});",
		"foo({});",
	}

	for _, src := range sources {
		call := firstCall(t, src)
		want := IsModel(call, s) || IsView(call, s) || IsCollection(call, s)
		assert.Equal(t, want, IsAny(call, s), src)
	}
}

func TestIsPropertyIn(t *testing.T) {
	t.Parallel()

	value := propertyValue(t, "Backbone.View.extend({ render: function() { return this; } });", "render")
	chain := ast.Ancestors(value, PropertyChainDepth)
	require.Len(t, chain, PropertyChainDepth)

	assert.True(t, IsPropertyInAny(chain, nil))
	assert.True(t, IsPropertyInView(chain, nil))
	assert.False(t, IsPropertyInModel(chain, nil))
	assert.False(t, IsPropertyInCollection(chain, nil))
}

func TestIsPropertyInRoles(t *testing.T) {
	t.Parallel()

	s := &Settings{Model: []string{"App.Model"}, Collection: []string{"Items"}}

	model := ast.Ancestors(propertyValue(t, "App.Model.extend({ defaults: {} });", "defaults"), PropertyChainDepth)
	assert.True(t, IsPropertyInModel(model, s))
	assert.False(t, IsPropertyInModel(model, nil), "App.Model needs settings")

	coll := ast.Ancestors(propertyValue(t, "var C = Items.extend({ model: M });", "model"), PropertyChainDepth)
	assert.True(t, IsPropertyInCollection(coll, s))
	assert.True(t, IsPropertyInAny(coll, s))
	assert.False(t, IsPropertyInView(coll, s))
}

func TestIsPropertyInMethodShorthand(t *testing.T) {
	t.Parallel()

	value := propertyValue(t, "Backbone.View.extend({ render() { return this; } });", "render")
	assert.True(t, IsPropertyInView(ast.Ancestors(value, PropertyChainDepth), nil))
}

func TestIsPropertyInNestedValue(t *testing.T) {
	t.Parallel()

	// The nested literal's call is four hops away, so the fixed-depth chain
	// lands on the outer property instead.
	value := propertyValue(t, "Backbone.Model.extend({ defaults: { name: 'x' } });", "name")
	assert.False(t, IsPropertyInAny(ast.Ancestors(value, PropertyChainDepth), nil))
}

func TestIsPropertyInShortChain(t *testing.T) {
	t.Parallel()

	orphan := &ast.Identifier{Name: "render"}
	chain := ast.Ancestors(orphan, PropertyChainDepth)
	require.Empty(t, chain)

	assert.NotPanics(t, func() {
		assert.False(t, IsPropertyInAny(chain, nil))
		assert.False(t, IsPropertyInModel(chain, nil))
		assert.False(t, IsPropertyInView(chain, nil))
		assert.False(t, IsPropertyInCollection(chain, nil))
	})

	prog := parse(t, "x;")
	top := prog.Body[0]
	assert.False(t, IsPropertyInAny(ast.Ancestors(top, PropertyChainDepth), nil))
}

func TestSettingsIsolation(t *testing.T) {
	t.Parallel()

	call := firstCall(t, "Foo.extend({});")
	withFoo := &Settings{View: []string{"Foo"}}

	assert.True(t, IsView(call, withFoo))
	assert.False(t, IsView(call, nil))
	assert.True(t, IsView(call, withFoo))
}
