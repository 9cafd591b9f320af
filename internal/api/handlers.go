package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/marks"
)

// saveElectionResponse is returned by POST /elections.
type saveElectionResponse struct {
	Hash         string   `json:"hash"`
	ElectionID   string   `json:"electionId"`
	BallotStyles []string `json:"ballotStyles"`
}

func (s *Server) saveElection(w http.ResponseWriter, r *http.Request) {
	e, err := election.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(e.GridLayouts) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodePreconditionFailed, "election has no grid layouts").
			With("hint", "build the election before storing it"))
		return
	}
	hash, err := s.Store.Save(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := saveElectionResponse{Hash: hash, ElectionID: e.ID, BallotStyles: []string{}}
	for _, style := range e.BallotStyles {
		resp.BallotStyles = append(resp.BallotStyles, style.ID)
	}
	w.Header().Set("Location", "/elections/"+hash)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getElection(w http.ResponseWriter, r *http.Request) {
	e, err := s.Store.Load(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	e, err := s.Store.Load(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "ballotStyleId")
	l, ok := e.GridLayout(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no grid layout for ballot style %q", id))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// marksRequest is the body of POST /elections/{hash}/marks.
type marksRequest struct {
	BallotStyleID string            `json:"ballotStyleId"`
	Votes         election.Votes    `json:"votes"`
	Calibration   *grid.Calibration `json:"calibration,omitempty"`

	// BasePDF is the printed ballot, base64 encoded in JSON.
	BasePDF []byte `json:"basePdf,omitempty"`
}

func (s *Server) postMarks(w http.ResponseWriter, r *http.Request) {
	var req marksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.BallotStyleID == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "ballotStyleId is required"))
		return
	}

	e, err := s.Store.Load(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cal := s.Calibration
	if req.Calibration != nil {
		cal = *req.Calibration
	}
	data, err := marks.Generate(r.Context(), marks.Params{
		Election:      e,
		BallotStyleID: req.BallotStyleID,
		Votes:         req.Votes,
		Calibration:   cal,
		BasePDF:       req.BasePDF,
		Logger:        s.Logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", contentDisposition(req.BallotStyleID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// contentDisposition names the overlay download, quoting the ballot style id.
func contentDisposition(ballotStyleID string) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": ballotStyleID + "-marks.pdf"})
}
