package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arduinolearn/commentboard/internal/app"
	"github.com/arduinolearn/commentboard/internal/cache"
	"github.com/arduinolearn/commentboard/internal/deletion"
	"github.com/arduinolearn/commentboard/internal/store"
	"github.com/arduinolearn/commentboard/internal/view"
)

// boardData is what the board template renders.
type boardData struct {
	Page           view.Page
	FlowState      string
	ChallengeError string
	Notice         string
	NoticeKind     string
}

// handleBoard renders the board page. A sort query parameter switches
// the active sort key; selecting the current one just re-renders.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if sortParam := r.URL.Query().Get("sort"); sortParam != "" {
		key, err := cache.ParseSortKey(sortParam)
		if err != nil {
			http.Error(w, "Unknown sort", http.StatusBadRequest)
			return
		}
		s.ctrl.SetSort(key)
	}

	data := boardData{
		Page:           s.ctrl.Page(time.Now()),
		FlowState:      s.ctrl.DeletionState().String(),
		ChallengeError: r.URL.Query().Get("cerr"),
		Notice:         r.URL.Query().Get("msg"),
		NoticeKind:     r.URL.Query().Get("kind"),
	}
	s.render(w, data)
}

// handleCommentPost publishes a top-level comment.
func (s *Server) handleCommentPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	err := s.ctrl.SubmitComment(r.Context(),
		r.FormValue("name"), r.FormValue("email"), r.FormValue("content"))
	switch {
	case errors.Is(err, app.ErrMissingFields), errors.Is(err, app.ErrInvalidEmail):
		s.redirectNotice(w, r, "error", err.Error())
	case err != nil:
		s.redirectNotice(w, r, "error", "Something went wrong while publishing. Please try again.")
	default:
		s.redirectNotice(w, r, "success", "Your comment has been published!")
	}
}

// handleCommentRoute dispatches /comments/{id}/replies and
// /comments/{id}/delete.
func (s *Server) handleCommentRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/comments/")

	if id, ok := strings.CutSuffix(path, "/replies"); ok {
		s.handleReplyPost(w, r, id)
		return
	}
	if id, ok := strings.CutSuffix(path, "/delete"); ok {
		s.handleDeleteBegin(w, r, id)
		return
	}

	http.NotFound(w, r)
}

// handleReplyPost appends a reply to a comment.
func (s *Server) handleReplyPost(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	err := s.ctrl.SubmitReply(r.Context(), id,
		r.FormValue("name"), r.FormValue("email"), r.FormValue("content"))
	switch {
	case errors.Is(err, app.ErrMissingFields):
		s.redirectNotice(w, r, "error", err.Error())
	case err != nil:
		s.redirectNotice(w, r, "error", "Something went wrong while publishing the reply.")
	default:
		s.redirectNotice(w, r, "success", "Your reply has been published!")
	}
}

// handleDeleteBegin opens the email challenge for a comment.
func (s *Server) handleDeleteBegin(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.ctrl.BeginDelete(id); err != nil {
		s.redirectNotice(w, r, "error", "Missing information for deletion.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteVerify checks the challenge email. Failures keep the
// challenge open with an inline error.
func (s *Server) handleDeleteVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := s.ctrl.SubmitChallenge(r.FormValue("email")); err != nil {
		if errors.Is(err, deletion.ErrNotPending) {
			s.redirectNotice(w, r, "error", "No deletion in progress.")
			return
		}
		http.Redirect(w, r, "/?cerr="+url.QueryEscape(challengeMessage(err)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteConfirm commits the pending deletion.
func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := s.ctrl.ConfirmDelete(r.Context())
	switch {
	case errors.Is(err, deletion.ErrNotPending):
		s.redirectNotice(w, r, "error", "No comment to delete.")
	case errors.Is(err, store.ErrPermissionDenied):
		s.redirectNotice(w, r, "error", "Permission denied. Check the store's security rules.")
	case err != nil:
		s.redirectNotice(w, r, "error", "Something went wrong while deleting the comment.")
	default:
		s.redirectNotice(w, r, "success", "Comment deleted.")
	}
}

// handleDeleteCancel abandons the pending deletion.
func (s *Server) handleDeleteCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ctrl.CancelDelete()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// challengeMessage maps challenge errors to the inline prompt message.
func challengeMessage(err error) string {
	switch {
	case errors.Is(err, deletion.ErrEmptyEmail):
		return "Please enter your email."
	case errors.Is(err, deletion.ErrMissingReference):
		return "Reference email is missing."
	case errors.Is(err, deletion.ErrChallengeMismatch):
		return "The email does not match the one used for this comment."
	}
	return "Verification failed."
}

// redirectNotice redirects to the board with a flash notice, landing on
// the comment list.
func (s *Server) redirectNotice(w http.ResponseWriter, r *http.Request, kind, msg string) {
	target := fmt.Sprintf("/?kind=%s&msg=%s#comments", url.QueryEscape(kind), url.QueryEscape(msg))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// render executes the board template.
func (s *Server) render(w http.ResponseWriter, data boardData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "board.html", data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering page: %v", err), http.StatusInternalServerError)
	}
}
