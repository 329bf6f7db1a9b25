// Package httpclient is a small HTTP client shared by outbound integrations.
// It resolves paths against a base URL and applies default headers and
// authentication. Bodies can be JSON, raw bytes or multipart forms. Non-2xx
// responses and transport failures are classified into *Error values so
// callers can map them onto their own error taxonomy.
//
// The client never retries; callers decide.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com/v1"})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/audio/transcriptions",
//	    Auth:   httpclient.BearerAuth(key),
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"model": "whisper-1"},
//	        Files:  []httpclient.FileField{{FieldName: "file", FileName: "audio.mp3", Data: audio}},
//	    },
//	})
package httpclient
