package sessions

import "time"

// DocumentView is the outward-facing shape of an uploaded document. The
// extracted text itself never leaves the server.
type DocumentView struct {
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	TextExtracted bool      `json:"textExtracted"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// SessionResponse is the session status view.
type SessionResponse struct {
	SessionID  string        `json:"sessionId"`
	ChunkSize  int           `json:"chunkSize"`
	Overlap    int           `json:"overlap"`
	IndexReady bool          `json:"indexReady"`
	ChunkCount int           `json:"chunkCount"`
	Original   *DocumentView `json:"original,omitempty"`
	Updated    *DocumentView `json:"updated,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

// UploadResponse reports an upload outcome.
type UploadResponse struct {
	SessionID     string `json:"sessionId"`
	Kind          string `json:"kind"`
	FileName      string `json:"fileName"`
	MimeType      string `json:"mimeType"`
	SizeBytes     int64  `json:"sizeBytes"`
	TextExtracted bool   `json:"textExtracted"`
	IndexReady    bool   `json:"indexReady"`
	ChunkCount    int    `json:"chunkCount"`
	Message       string `json:"message"`
}

func toDocumentView(doc *Document) *DocumentView {
	if doc == nil {
		return nil
	}
	return &DocumentView{
		FileName:      doc.Name,
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		TextExtracted: doc.TextOK,
		UploadedAt:    doc.UploadedAt,
	}
}

func toSessionResponse(sess Session) SessionResponse {
	return SessionResponse{
		SessionID:  sess.ID,
		ChunkSize:  sess.ChunkSize,
		Overlap:    sess.Overlap,
		IndexReady: sess.IndexReady,
		ChunkCount: sess.ChunkCount,
		Original:   toDocumentView(sess.Original),
		Updated:    toDocumentView(sess.Updated),
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
	}
}

func toUploadResponse(kind string, result UploadResult) UploadResponse {
	var doc *Document
	switch kind {
	case "original":
		doc = result.Session.Original
	case "updated":
		doc = result.Session.Updated
	}
	resp := UploadResponse{
		SessionID:  result.Session.ID,
		Kind:       kind,
		IndexReady: result.Session.IndexReady,
		ChunkCount: result.Session.ChunkCount,
		Message:    result.Message,
	}
	if doc != nil {
		resp.FileName = doc.Name
		resp.MimeType = doc.MimeType
		resp.SizeBytes = doc.SizeBytes
		resp.TextExtracted = doc.TextOK
	}
	return resp
}
