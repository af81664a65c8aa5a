/*
Package jsmin implements a heuristic JavaScript minifier.

It removes whitespace and comments from a JavaScript byte stream
without altering program semantics, using a single-pass character
scanner with one-token lookbehind. It performs no parsing and builds
no AST: JavaScript's automatic semicolon insertion (ASI) rule and the
division/regular-expression-literal ambiguity are resolved with a
small previous-token state machine instead, which is what makes this a
heuristic minifier rather than a correct-by-construction one for
every conceivable input.

Any error aborts minification atomically — the caller must not use
whatever output accompanied the error.
*/
package jsmin

// Minify minifies input, returning the minified bytes.
func Minify(input []byte) ([]byte, error) {
	sink := &byteSink{}
	if err := newScanner(input, sink, false).run(); err != nil {
		return nil, err
	}
	return sink.buf.Bytes(), nil
}

// MinifiedSize runs the same algorithm as Minify but only reports the
// size of what would have been produced, without materializing it.
func MinifiedSize(input []byte) (int, error) {
	sink := &sizeSink{}
	if err := newScanner(input, sink, false).run(); err != nil {
		return 0, err
	}
	return sink.n, nil
}

// MinifyCollapseStrings runs the same algorithm as Minify, except
// every string literal's body is replaced with empty content,
// preserving only its matching quote characters. This is useful for
// size-estimation callers that do not want string contents to
// influence measured savings.
func MinifyCollapseStrings(input []byte) ([]byte, error) {
	sink := &byteSink{}
	if err := newScanner(input, sink, true).run(); err != nil {
		return nil, err
	}
	return sink.buf.Bytes(), nil
}

// MinifiedSizeCollapseStrings is the size-only sink variant of
// MinifyCollapseStrings.
func MinifiedSizeCollapseStrings(input []byte) (int, error) {
	sink := &sizeSink{}
	if err := newScanner(input, sink, true).run(); err != nil {
		return 0, err
	}
	return sink.n, nil
}
