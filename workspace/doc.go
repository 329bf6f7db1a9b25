// Package workspace manages request-scoped scratch directories on the local
// filesystem.
//
// Each Session owns <base>/<uuid>. Sessions of concurrent requests never
// share files, and Close removes the whole directory tree.
//
//	ws, _ := workspace.New(workspace.Config{BasePath: "/var/tmp/chunkscribe"})
//	sess, err := ws.NewSession()
//	if err != nil { return err }
//	defer sess.Close()
//	path, err := sess.WriteFile("input_audio.mp3", audio)
package workspace
