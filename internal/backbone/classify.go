package backbone

import (
	"github.com/phobologic/backbonelint/internal/ast"
)

// PropertyChainDepth is the number of parent hops from an object literal
// property value to the call receiving the literal:
// value → Property → ObjectExpression → CallExpression.
const PropertyChainDepth = 3

// definitionCallee returns the callee of n when n has the shape
// <scoped name>.extend(...) and the scoped name starts with a prefix known to
// t. The role itself is not checked here.
func definitionCallee(n ast.Node, t Table) (*ast.MemberExpression, bool) {
	call, ok := n.(*ast.CallExpression)
	if !ok || call == nil || call.New {
		return nil, false
	}
	callee, ok := call.Callee.(*ast.MemberExpression)
	if !ok || callee == nil {
		return nil, false
	}
	if !ast.IsIdentNamed(callee.Property, "extend") {
		return nil, false
	}

	switch obj := callee.Object.(type) {
	case *ast.Identifier:
		if t.hasPrefix(obj.Name) {
			return callee, true
		}
	case *ast.MemberExpression:
		if name, ok := ast.IdentName(obj.Object); ok && t.hasPrefix(name) {
			return callee, true
		}
	}
	return nil, false
}

func isDefinitionCall(n ast.Node, t Table) bool {
	_, ok := definitionCallee(n, t)
	return ok
}

// matchesRole reports whether object, the receiver of .extend, matches one of
// sigs. A dotted signature only matches App.Model style receivers by their
// last segment; a bare signature only matches an identifier receiver.
func matchesRole(sigs []Signature, object ast.Node) bool {
	for _, sig := range sigs {
		if sig.HasPostfix() {
			if m, ok := object.(*ast.MemberExpression); ok && ast.IsIdentNamed(m.Property, sig.Postfix) {
				return true
			}
			continue
		}
		if ast.IsIdentNamed(object, sig.Prefix) {
			return true
		}
	}
	return false
}

func isRole(n ast.Node, s *Settings, role Role) bool {
	t := Normalize(s)
	callee, ok := definitionCallee(n, t)
	if !ok {
		return false
	}
	return matchesRole(t.group(role), callee.Object)
}

// IsModel reports whether n is a Model definition call.
func IsModel(n ast.Node, s *Settings) bool {
	return isRole(n, s, Model)
}

// IsView reports whether n is a View definition call.
func IsView(n ast.Node, s *Settings) bool {
	return isRole(n, s, View)
}

// IsCollection reports whether n is a Collection definition call.
func IsCollection(n ast.Node, s *Settings) bool {
	return isRole(n, s, Collection)
}

// IsAny reports whether n is a definition call of any role. Unlike the
// per-role checks it tolerates a call whose callee or receiver is missing.
func IsAny(n ast.Node, s *Settings) bool {
	t := Normalize(s)
	if !isDefinitionCall(n, t) {
		return false
	}
	call := n.(*ast.CallExpression)
	callee, ok := call.Callee.(*ast.MemberExpression)
	if !ok || callee == nil || callee.Object == nil {
		return false
	}
	return matchesRole(t.model, callee.Object) ||
		matchesRole(t.view, callee.Object) ||
		matchesRole(t.collection, callee.Object)
}

// RoleOf returns the first role n defines, checked in Model, View,
// Collection order.
func RoleOf(n ast.Node, s *Settings) (Role, bool) {
	for _, role := range Roles {
		if isRole(n, s, role) {
			return role, true
		}
	}
	return 0, false
}

// definitionAncestor returns the node expected to be the definition call for
// a property value whose ancestors, nearest first, are chain.
func definitionAncestor(chain []ast.Node) (ast.Node, bool) {
	if len(chain) < PropertyChainDepth {
		return nil, false
	}
	return chain[PropertyChainDepth-1], true
}

// IsPropertyInAny reports whether the property value with the given
// ancestor chain (see ast.Ancestors) sits in a definition of any role.
// Chains shorter than PropertyChainDepth are never inside a definition.
func IsPropertyInAny(chain []ast.Node, s *Settings) bool {
	def, ok := definitionAncestor(chain)
	return ok && IsAny(def, s)
}

// IsPropertyInModel is IsPropertyInAny restricted to Model definitions.
func IsPropertyInModel(chain []ast.Node, s *Settings) bool {
	def, ok := definitionAncestor(chain)
	return ok && IsModel(def, s)
}

// IsPropertyInView is IsPropertyInAny restricted to View definitions.
func IsPropertyInView(chain []ast.Node, s *Settings) bool {
	def, ok := definitionAncestor(chain)
	return ok && IsView(def, s)
}

// IsPropertyInCollection is IsPropertyInAny restricted to Collection
// definitions.
func IsPropertyInCollection(chain []ast.Node, s *Settings) bool {
	def, ok := definitionAncestor(chain)
	return ok && IsCollection(def, s)
}
