package models

// AuthRequest is the credential exchange body for the telemetry API.
type AuthRequest struct {
	AuthKeyID string `json:"authKeyId"`
	AuthKey   string `json:"authKey"`
}

// Session is the short-lived credential pair returned by the telemetry API.
// It is used for the fetch that immediately follows and then dropped.
type Session struct {
	APIKey     string `json:"apiKey"`
	Token      string `json:"token"`
	OperatorID string `json:"operatorId,omitempty"`
	UserName   string `json:"userName,omitempty"`
}

// Headers returns the request headers that authorize a telemetry read.
func (s Session) Headers() map[string]string {
	return map[string]string{
		"X-Soracom-API-Key": s.APIKey,
		"X-Soracom-Token":   s.Token,
		"Accept":            "application/json",
	}
}
