package offlinequeue

// FlushPubSubPayload rides the flush topic: a queued FlushRun id plus what
// triggered it.
type FlushPubSubPayload struct {
	RunId       uint   `json:"run_id"`
	TriggeredBy string `json:"triggered_by"`
}

// PubSubPushEnvelope is the wrapper Google delivers to push endpoints. Data is
// []byte so encoding/json base64-decodes the push payload for us.
type PubSubPushEnvelope struct {
	Message struct {
		Data      []byte `json:"data"`
		MessageId string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// StatusResponse backs the connectivity banner: online flag plus pending and
// failed counts.
type StatusResponse struct {
	Online  bool  `json:"online"`
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
}

// FlushResult summarizes one completed drain.
type FlushResult struct {
	RunId   uint   `json:"run_id"`
	Status  string `json:"status"`
	Flushed int    `json:"flushed"`
	Failed  int    `json:"failed"`
	Pending int64  `json:"pending"`
}
