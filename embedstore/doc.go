// Package embedstore converts plaintext word-embedding corpora into a
// compact index/blob file pair and serves vectors from it through a
// read-only memory mapping.
//
// Quick start:
//
//	cfg := embedstore.DefaultConfig()
//	out, err := embedstore.Ingest("enwiki_300d.txt", cfg)
//	// out.Paths == ["enwiki_300d.idx", "enwiki_300d.vec"]
//	s, err := embedstore.Open(out.Paths[0], out.Paths[1], cfg)
//	defer s.Close()
//	vec, ok := s.Get("the")
//
// Set cfg.Backend = embedstore.BackendSQLite to write a single SQLite
// database instead; Load opens either layout from a path prefix.
package embedstore
