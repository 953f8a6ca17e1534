// Package logpath derives where log files live and what they are called.
//
// A log file name has the form
//
//	<channel>-<YYYY-MM-DD>-<hash>.log
//
// where hash is a keyed hash of the date string. The hash makes file names
// hard to guess from outside; it is not a security boundary. Because the
// name only depends on the channel, the calendar day, and the key, every
// write on the same day goes to the same file, and a new file starts at
// the next day.
package logpath

import (
	"encoding/hex"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Extension is the suffix of every log file.
const Extension = ".log"

// DateLayout is the date portion of a log file name.
const DateLayout = "2006-01-02"

// Hasher maps a string to a stable opaque string using a secret the host
// owns. The same input and key must always give the same output.
type Hasher interface {
	Hash(s string) string
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(s string) string

// Hash calls f(s).
func (f HasherFunc) Hash(s string) string {
	return f(s)
}

// keyedHasher is a keyed BLAKE2b MAC with a 16-byte digest.
type keyedHasher struct {
	key []byte
}

// NewKeyedHasher returns the default Hasher: keyed BLAKE2b, hex encoded.
// Keys longer than 64 bytes are rejected by BLAKE2b, so they are folded
// into a 64-byte digest first.
func NewKeyedHasher(key []byte) Hasher {
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return keyedHasher{key: append([]byte(nil), key...)}
}

func (h keyedHasher) Hash(s string) string {
	// New only fails for a bad size or a key over 64 bytes; neither can
	// happen here.
	mac, _ := blake2b.New(16, h.key)
	mac.Write([]byte(s))
	return hex.EncodeToString(mac.Sum(nil))
}

// DirectoryPath joins the storage base and the log directory name.
func DirectoryPath(storageBase, dirName string) string {
	return filepath.Join(storageBase, dirName)
}

// Resolver computes log file names. It holds no clock; callers pass the
// time so tests can pin it.
type Resolver struct {
	hasher Hasher
}

// NewResolver creates a Resolver that uses h for the name suffix.
func NewResolver(h Hasher) *Resolver {
	return &Resolver{hasher: h}
}

// FileName returns the log file name for channel on the calendar day of
// now, in now's location. The time of day does not matter.
func (r *Resolver) FileName(channel string, now time.Time) string {
	date := now.Format(DateLayout)
	return channel + "-" + date + "-" + r.hasher.Hash(date) + Extension
}

// FinalPath returns the full path of the active log file.
func (r *Resolver) FinalPath(storageBase, dirName, channel string, now time.Time) string {
	return filepath.Join(DirectoryPath(storageBase, dirName), r.FileName(channel, now))
}

// fileNamePattern matches <channel>-<date>-<hash>.log. The hash is whatever
// the host's Hasher returned, so it may contain dashes and dots; only path
// separators are ruled out.
var fileNamePattern = regexp.MustCompile(`^.+-(\d{4}-\d{2}-\d{2})-[^/\\]+\.log$`)

// IsLogFileName reports whether name follows the log file naming
// convention. Only such files are eligible for retention pruning.
func IsLogFileName(name string) bool {
	return fileNamePattern.MatchString(name)
}

// DateOf returns the date embedded in a conforming log file name.
func DateOf(name string) (time.Time, bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
