// Package contentid derives deterministic identities for article text.
//
// The fingerprint names episode audio artifacts: re-rendering an article
// whose body text has not changed produces the same file name, so re-runs
// overwrite rather than duplicate. The digest is a naming device, not a
// security boundary.
package contentid
