// ABOUTME: Cookie jar persisted to disk so the auth cookie survives restarts
// ABOUTME: Stores cookies for the single backend host as a JSON file

package client

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Jar implements http.CookieJar backed by a JSON file. The client only ever
// talks to one backend, so cookies are kept by name without domain scoping.
type Jar struct {
	path    string
	mu      sync.Mutex
	cookies map[string]storedCookie
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewJar loads the jar from path, starting empty if the file is missing or
// unreadable.
func NewJar(path string) *Jar {
	j := &Jar{path: path, cookies: map[string]storedCookie{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return j
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return j
	}
	for _, c := range stored {
		j.cookies[c.Name] = c
	}
	return j
}

// SetCookies implements http.CookieJar. Cookies with MaxAge<0 or an empty
// value after expiry are dropped. The jar is flushed to disk on every change.
func (j *Jar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if c.MaxAge < 0 || c.Value == "" {
			delete(j.cookies, c.Name)
			continue
		}
		sc := storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
		if c.MaxAge > 0 {
			sc.Expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.cookies[c.Name] = sc
	}
	j.flush()
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Get returns the live cookie with the given name, or nil.
func (j *Jar) Get(name string) *http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok {
		return nil
	}
	if !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
		return nil
	}
	return &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
}

// Clear drops every cookie and removes the backing file.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cookies = map[string]storedCookie{}
	if j.path != "" {
		os.Remove(j.path)
	}
}

// flush writes the jar to disk. Callers must hold the mutex.
func (j *Jar) flush() {
	if j.path == "" {
		return
	}
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return
	}
	os.WriteFile(j.path, data, 0600)
}
