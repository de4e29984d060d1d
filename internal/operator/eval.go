package operator

// Eval re-evaluates node against fields after bleve has already retrieved a
// candidate via Query(): it re-checks the parts no bleve query can express
// exactly (Pattern anchors, Union's existential gate) and sums the
// boost/downrank coefficients of every Const whose subtree matched.
//
// Must/Should/MustNot/Const/ShortCircuit/Leaf dispatch through the type
// switch below (the hot path, §9 "closed sum type with static dispatch");
// any other kind — Pattern and Union today — falls through to its own
// Evaluate method (dynamic dispatch, "remain dynamic for extensibility").
// A node that is not an Evaluator and not one of the closed kinds is
// treated as already satisfied: it compiled fully into Query() with no
// verification gap, so its membership in the bleve hit set is its proof.
func Eval(n Node, fields FieldSource) (matched bool, boost float64) {
	switch t := n.(type) {
	case *Must:
		matched = true
		for _, c := range t.Children {
			ok, b := Eval(c, fields)
			boost += b
			if !ok {
				matched = false
			}
		}
		return matched, boost
	case *Should:
		for _, c := range t.Children {
			ok, b := Eval(c, fields)
			boost += b
			if ok {
				matched = true
			}
		}
		if len(t.Children) == 0 {
			matched = true
		}
		return matched, boost
	case *MustNot:
		exact := false
		switch c := t.Child.(type) {
		case *Leaf:
			exact = true
		case *Should:
			exact = true
			for _, g := range c.Children {
				if _, isLeaf := g.(*Leaf); !isLeaf {
					exact = false
				}
			}
		}
		if exact {
			// The child compiled exactly into Query(), so bleve has already
			// excluded every document it matches: a hit satisfies the must-not.
			return true, 0
		}
		ok, _ := Eval(t.Child, fields)
		return !ok, 0
	case *Const:
		ok, childBoost := Eval(t.Child, fields)
		if !ok {
			return false, 0
		}
		return true, childBoost + t.Coefficient
	case *ShortCircuit:
		return Eval(t.Child, fields)
	case *Leaf:
		return true, 0
	default:
		if ev, ok := n.(Evaluator); ok {
			if !ev.Evaluate(fields) {
				return false, 0
			}
			if u, isUnion := n.(*Union); isUnion {
				// Evaluate decides the gate; the boost of every matching child
				// (a boosted keeper under DiscardNonMatching) still counts.
				for _, c := range u.Children {
					if ok, b := Eval(c, fields); ok {
						boost += b
					}
				}
			}
			return true, boost
		}
		return true, 0
	}
}
