package service

// Broadcaster pushes respondent events to author monitor connections
type Broadcaster interface {
	BroadcastToMonitors(surveyID string, msgType string, payload interface{})
}
