package jslex

// GetterLiteral finds the string a static accessor returns. It looks at the
// first module-scope call of the form
//
//	defineProperties(X.prototype, {
//	    <prop>: {
//	        get: function() { return 'literal'; }
//	    }
//	});
//
// and returns 'literal'. Method shorthand (get() { ... }) is accepted too. The
// second result is false when the pattern is absent or the accessor does not
// start with a string return.
func GetterLiteral(toks []Token, prop string) (string, bool) {
	call := firstTopLevelCall(toks, "defineProperties")
	if call < 0 {
		return "", false
	}
	// toks[call] is the identifier, toks[call+1] the opening paren.
	i := skipValue(toks, call+2)
	if i >= len(toks) || !toks[i].Is(",") {
		return "", false
	}
	i++
	if i >= len(toks) || !toks[i].Is("{") {
		return "", false
	}
	i++
	for i < len(toks) && !toks[i].Is("}") {
		key, ok := propertyKey(toks[i])
		if !ok || i+1 >= len(toks) || !toks[i+1].Is(":") {
			return "", false
		}
		if key == prop {
			return accessorLiteral(toks, i+2)
		}
		i = skipValue(toks, i+2)
		if i < len(toks) && toks[i].Is(",") {
			i++
		}
	}
	return "", false
}

// accessorLiteral inspects the descriptor object starting at i.
func accessorLiteral(toks []Token, i int) (string, bool) {
	if i >= len(toks) || !toks[i].Is("{") {
		return "", false
	}
	i++
	if i >= len(toks) {
		return "", false
	}
	if _, ok := propertyKey(toks[i]); !ok {
		return "", false
	}
	i++
	if i < len(toks) && toks[i].Is(":") {
		i++
		if i >= len(toks) || !toks[i].Is("function") {
			return "", false
		}
		i++
		if i < len(toks) && toks[i].Kind == Ident {
			i++ // named function expression
		}
	}
	if i >= len(toks) || !toks[i].Is("(") {
		return "", false
	}
	i = skipBalanced(toks, i)
	if i+2 >= len(toks) || !toks[i].Is("{") || !toks[i+1].Is("return") {
		return "", false
	}
	if toks[i+2].Kind != String {
		return "", false
	}
	return toks[i+2].Text, true
}

func propertyKey(t Token) (string, bool) {
	switch t.Kind {
	case Ident, String:
		return t.Text, true
	}
	return "", false
}

// firstTopLevelCall returns the index of the first identifier name that is
// directly called at nesting depth zero, or -1.
func firstTopLevelCall(toks []Token, name string) int {
	depth := 0
	for i, t := range toks {
		if t.Kind == Punct {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
			continue
		}
		if depth != 0 || t.Kind != Ident || t.Text != name {
			continue
		}
		if i > 0 && toks[i-1].Is(".") {
			continue
		}
		if i+1 < len(toks) && toks[i+1].Is("(") {
			return i
		}
	}
	return -1
}

// skipBalanced returns the index just past the bracket that closes toks[i].
func skipBalanced(toks []Token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		if toks[i].Kind != Punct {
			continue
		}
		switch toks[i].Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// skipValue advances from i to the next ',' or closing bracket at the same
// nesting level.
func skipValue(toks []Token, i int) int {
	for i < len(toks) {
		t := toks[i]
		if t.Kind == Punct {
			switch t.Text {
			case "(", "[", "{":
				i = skipBalanced(toks, i)
				continue
			case ",", ")", "]", "}":
				return i
			}
		}
		i++
	}
	return i
}
