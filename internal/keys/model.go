// README: Vendor credential bundle (speech, map, generation, datastore).
package keys

// XfyunKeys holds the iFlytek speech recognition credentials.
type XfyunKeys struct {
	AppID     string `json:"appId,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
	APISecret string `json:"apiSecret,omitempty"`
}

// AmapKeys holds the Amap web-service key. The key is designed for direct
// browser use, so unlike the other vendors it may be exposed to clients.
type AmapKeys struct {
	Key string `json:"key,omitempty"`
}

// AliyunKeys holds the DashScope text-generation credentials.
type AliyunKeys struct {
	APIKey    string `json:"apiKey,omitempty"`
	APISecret string `json:"apiSecret,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
}

// DatabaseKeys holds the hosted datastore connection credentials.
type DatabaseKeys struct {
	URL string `json:"url,omitempty"`
	Key string `json:"key,omitempty"`
}

// ApiKeys is the full credential bundle. Zero-valued vendors mean "not configured".
type ApiKeys struct {
	Xfyun    XfyunKeys    `json:"xfyun,omitempty"`
	Amap     AmapKeys     `json:"amap,omitempty"`
	Aliyun   AliyunKeys   `json:"aliyun,omitempty"`
	Database DatabaseKeys `json:"database,omitempty"`
}

// XfyunConfigured reports whether all three speech credentials are present.
func (k ApiKeys) XfyunConfigured() bool {
	return k.Xfyun.AppID != "" && k.Xfyun.APIKey != "" && k.Xfyun.APISecret != ""
}

// AmapConfigured reports whether the map key is present.
func (k ApiKeys) AmapConfigured() bool {
	return k.Amap.Key != ""
}

// AliyunConfigured reports whether the generation key is present.
func (k ApiKeys) AliyunConfigured() bool {
	return k.Aliyun.APIKey != ""
}

// DatabaseConfigured reports whether the datastore URL is present.
func (k ApiKeys) DatabaseConfigured() bool {
	return k.Database.URL != ""
}

// merge returns a copy of base with every non-empty field of patch applied.
// Vendors absent from patch keep their previous values; a save of one vendor
// never erases another vendor's stored fields.
func merge(base, patch ApiKeys) ApiKeys {
	out := base
	if patch.Xfyun.AppID != "" {
		out.Xfyun.AppID = patch.Xfyun.AppID
	}
	if patch.Xfyun.APIKey != "" {
		out.Xfyun.APIKey = patch.Xfyun.APIKey
	}
	if patch.Xfyun.APISecret != "" {
		out.Xfyun.APISecret = patch.Xfyun.APISecret
	}
	if patch.Amap.Key != "" {
		out.Amap.Key = patch.Amap.Key
	}
	if patch.Aliyun.APIKey != "" {
		out.Aliyun.APIKey = patch.Aliyun.APIKey
	}
	if patch.Aliyun.APISecret != "" {
		out.Aliyun.APISecret = patch.Aliyun.APISecret
	}
	if patch.Aliyun.Endpoint != "" {
		out.Aliyun.Endpoint = patch.Aliyun.Endpoint
	}
	if patch.Database.URL != "" {
		out.Database.URL = patch.Database.URL
	}
	if patch.Database.Key != "" {
		out.Database.Key = patch.Database.Key
	}
	return out
}
