package service

import "sync"

// DraftPhoto is an in-memory photo selection awaiting upload.
type DraftPhoto struct {
	Filename string
	Data     []byte
}

// EditSession tracks one post's in-progress edit. A post is Viewing until
// its author begins an edit; draft state lives only in the session and
// touches no store until submit.
type EditSession struct {
	mu sync.Mutex

	postID   string
	authorID string

	editing    bool
	submitting bool

	originalText string
	draftText    string
	draftPhoto   *DraftPhoto

	// pendingPhoto survives a partial commit so the photo leg can be
	// retried without re-entering edit mode.
	pendingPhoto *DraftPhoto
}

// newEditSession opens a session with an empty draft. The original text is
// kept for reference but submitting requires typing a replacement.
func newEditSession(postID, authorID, text string) *EditSession {
	return &EditSession{
		postID:       postID,
		authorID:     authorID,
		editing:      true,
		originalText: text,
	}
}

// Snapshot is a read-only view of the session for API responses.
type Snapshot struct {
	PostID       string `json:"postId"`
	Editing      bool   `json:"editing"`
	OriginalText string `json:"originalText"`
	DraftText    string `json:"draftText"`
	HasPhoto     bool   `json:"hasPhoto"`
	PendingPhoto bool   `json:"pendingPhoto"`
}

func (s *EditSession) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		PostID:       s.postID,
		Editing:      s.editing,
		OriginalText: s.originalText,
		DraftText:    s.draftText,
		HasPhoto:     s.draftPhoto != nil,
		PendingPhoto: s.pendingPhoto != nil,
	}
}

// sessionSet is the in-memory registry of live edit sessions, keyed by post.
type sessionSet struct {
	mu       sync.Mutex
	sessions map[string]*EditSession
}

func newSessionSet() *sessionSet {
	return &sessionSet{sessions: make(map[string]*EditSession)}
}

func (s *sessionSet) get(postID string) (*EditSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[postID]
	return session, ok
}

func (s *sessionSet) put(session *EditSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.postID] = session
}

func (s *sessionSet) remove(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, postID)
}
