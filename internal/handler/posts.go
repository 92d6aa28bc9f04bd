package handler

import "net/http"

// HandlePosts handles GET /api/posts requests. Posts are not implemented yet;
// the route only proves the guard is in front of it.
func HandlePosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse("Posts route"))
}
