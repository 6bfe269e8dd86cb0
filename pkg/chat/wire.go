// Package chat holds the wire types shared by the relay's HTTP surface and
// the Go client.
package chat

// InteractionIDHeader carries the resolved session id on every successful
// relay response. The id never appears in the response body.
const InteractionIDHeader = "X-Interaction-ID"

// DefaultImageQuery is substituted when a request attaches an image but no
// query text.
const DefaultImageQuery = "Please analyze this prescription of drugs"

// AskRequest is the client → relay body for one chat submission.
type AskRequest struct {
	Query     string  `json:"query" validate:"required_without=ImgBase64"`
	SessionID *string `json:"sessionId"`
	ImgBase64 *string `json:"img_base64"`
}
