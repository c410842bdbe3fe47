package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Version is the payload of GET /api/version.
type Version struct {
	Version string `json:"version"`
	Project string `json:"project"`
}

// Config is the payload of GET /api/config.
type Config struct {
	Columns  []ColumnDef                `json:"columns"`
	Settings map[string]json.RawMessage `json:"settings,omitempty"`
	Scopes   []string                   `json:"scopes,omitempty"`
}

type ColumnDef struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
}

// Board is the payload of GET /api/board: ordered columns, each holding
// an ordered list of task summaries.
type Board struct {
	Columns []Column `json:"columns"`
}

type Column struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
	Tasks []Task `json:"tasks,omitempty"`
}

// DisplayLabel returns the column label, falling back to its name.
func (c Column) DisplayLabel() string {
	if s := strings.TrimSpace(c.Label); s != "" {
		return s
	}
	return c.Name
}

type Task struct {
	Filename string   `json:"filename"`
	Column   string   `json:"column,omitempty"`
	Meta     TaskMeta `json:"meta,omitempty"`
	Body     string   `json:"body,omitempty"`
}

// Title returns the task title, falling back to the filename so every
// task has something renderable.
func (t Task) Title() string {
	if s := strings.TrimSpace(t.Meta.Title); s != "" {
		return s
	}
	return t.Filename
}

type TaskMeta struct {
	ID        FlexibleID `json:"id,omitempty"`
	Title     string     `json:"title,omitempty"`
	Assignee  string     `json:"assignee,omitempty"`
	Scopes    ScopeList  `json:"scopes,omitempty"`
	Created   string     `json:"created,omitempty"`
	Due       string     `json:"due,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Completed string     `json:"completed,omitempty"`
}

type Comment struct {
	Filename string      `json:"filename"`
	Meta     CommentMeta `json:"meta,omitempty"`
	Body     string      `json:"body,omitempty"`
}

type CommentMeta struct {
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
}

// Resource is a versioned prompt or document directory as served by
// GET /api/prompts and GET /api/documents.
type Resource struct {
	DirName string       `json:"dir_name"`
	Meta    ResourceMeta `json:"meta,omitempty"`
	Body    string       `json:"body,omitempty"`
}

func (r Resource) Title() string {
	if s := strings.TrimSpace(r.Meta.Title); s != "" {
		return s
	}
	return r.DirName
}

type ResourceMeta struct {
	ID       FlexibleID `json:"id,omitempty"`
	Title    string     `json:"title,omitempty"`
	Created  string     `json:"created,omitempty"`
	Updated  string     `json:"updated,omitempty"`
	Revision *int64     `json:"revision,omitempty"`
	Scopes   ScopeList  `json:"scopes,omitempty"`
}

type Revision struct {
	Filename string       `json:"filename"`
	Meta     RevisionMeta `json:"meta,omitempty"`
	Body     string       `json:"body,omitempty"`
}

type RevisionMeta struct {
	Revision *int64 `json:"revision,omitempty"`
	Created  string `json:"created,omitempty"`
}

type ActivityEntry struct {
	Type     string     `json:"type"`
	Title    string     `json:"title,omitempty"`
	ID       FlexibleID `json:"id,omitempty"`
	Column   string     `json:"column,omitempty"`
	Filename string     `json:"filename,omitempty"`
	DirName  string     `json:"dir_name,omitempty"`
	Mtime    float64    `json:"mtime,omitempty"`
	Revision *int64     `json:"revision,omitempty"`
}

// SyncHashes is the change-detection triple carried by the event
// stream's init/changed payloads. The values are opaque server-side
// fingerprints; the client only ever compares them.
type SyncHashes struct {
	Board     string `json:"board"`
	Prompts   string `json:"prompts"`
	Documents string `json:"documents"`
}

// ResourceKind distinguishes the two versioned resource collections.
type ResourceKind string

const (
	KindPrompt   ResourceKind = "prompt"
	KindDocument ResourceKind = "document"
)

// APIPath returns the path segment used by the server for this kind.
func (k ResourceKind) APIPath() string {
	if k == KindDocument {
		return "documents"
	}
	return "prompts"
}

func (k ResourceKind) Label() string {
	if k == KindDocument {
		return "Document"
	}
	return "Prompt"
}

// FlexibleID tolerates ids arriving as JSON strings or numbers. The
// server derives task metadata from YAML front matter, so `id: 42` and
// `id: "42"` both occur in the wild.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexibleID(strconv.FormatBool(b))
		return nil
	}
	// Unrecognized shapes decode to empty rather than failing the
	// whole response.
	*f = ""
	return nil
}

func (f FlexibleID) String() string { return string(f) }

func (f FlexibleID) IsEmpty() bool { return strings.TrimSpace(string(f)) == "" }

// ScopeList tolerates scopes arriving as a JSON array of strings or as
// a single string (YAML front matter allows both forms).
type ScopeList []string

func (s *ScopeList) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*s = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			*s = nil
		} else {
			*s = []string{single}
		}
		return nil
	}
	*s = nil
	return nil
}
