package webauthntypes

type GetAppIDInputs struct {
	AppID string `json:"appid,omitempty"`
}

type GetAppIDOutputs struct {
	AppID bool `json:"appid"`
}
