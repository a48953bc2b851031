// Package subtext models time-stamped sentence streams and parses the
// tokenized sentence documents the aligner consumes.
//
// A stream is one language side of a bitext: an ordered sequence of sentences,
// each carrying its character span within the source document, any raw time
// markers found inside it, and the token list used for lexical matching. The
// derived Start/End times are filled in by the timesync package and rewritten
// whenever the stream is resynchronized.
package subtext

// Marker is a raw time marker found inside a sentence: a playback time and
// the document character offset it was attached to.
type Marker struct {
	Time float64
	Pos  int
}

// Sentence is one unit of a language stream.
//
// First and Last are nil when the source document carried no marker at the
// corresponding boundary; timesync recovers them. Start and End are derived
// times in seconds and are mutated in place during synchronization passes.
type Sentence struct {
	ID       string
	Index    int
	StartPos int
	EndPos   int
	First    *Marker
	Last     *Marker
	Start    float64
	End      float64
	Tokens   []string
}

// FinalToken returns the last non-empty token of the sentence, or "" when the
// sentence has no tokens. Window scanning matches on this token only.
func (s *Sentence) FinalToken() string {
	for i := len(s.Tokens) - 1; i >= 0; i-- {
		if s.Tokens[i] != "" {
			return s.Tokens[i]
		}
	}
	return ""
}

// Stream is one parsed language side: ordered sentences plus the corpus-wide
// token frequency map used for frequency-weighted matching.
type Stream struct {
	Path      string
	Sentences []*Sentence
	Frequency map[string]int
}

// IDs returns the sentence identifiers in stream order.
func (st *Stream) IDs() []string {
	ids := make([]string, len(st.Sentences))
	for i, s := range st.Sentences {
		ids[i] = s.ID
	}
	return ids
}
