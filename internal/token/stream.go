package token

// Stream is a fully buffered token sequence. The zero position is before
// the first token; lookahead is the consumer's concern.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next returns the next token and advances. Past the end it keeps
// returning the final EOF token.
func (s *Stream) Next() Token {
	if s.pos >= len(s.tokens) {
		if len(s.tokens) == 0 {
			return Token{Type: EOF, Line: 1, Column: 1, EndLine: 1, EndCol: 1}
		}
		return s.tokens[len(s.tokens)-1]
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}
