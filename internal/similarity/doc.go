// Package similarity scores how well a query matches a text field.
//
// Scores are in [0, 1]. Two strategies are combined:
//
//   - Short strings: when either the query or the target is at most
//     ShortLength runes (10 by default), a case-insensitive containment
//     check is made first: does the target contain the query? A hit scores
//     1.0. A long query is never contained in a short target, so that case
//     always falls through.
//   - Trigram similarity: both strings are split into words, each word is
//     padded ("  word ") and shingled into 3-rune trigrams, and the Jaccard
//     index of the two trigram sets is computed. The target is also scanned
//     in windows of as many words as the query has, and the best window wins,
//     so "reactt" still matches the "react" inside "React Hooks Guide".
//
// A pair that misses the containment check falls through to trigram
// similarity, which keeps near misses like "typescirpt" scoring above zero.
//
// # Basic Usage
//
//	s, err := similarity.New(similarity.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	score := s.Similarity("reactt", "React Hooks Guide") // 0.625
//
// Normalization applies NFKC and Unicode case folding, so results never depend
// on the process locale. Per-word trigram sets are memoized in an LRU cache;
// the cache only affects speed, never the score.
package similarity
