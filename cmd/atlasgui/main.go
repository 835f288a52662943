package main

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	webview "github.com/webview/webview_go"
)

const serverAddr = "localhost:1923"

func main() {
	// Webview requires main thread
	runtime.LockOSThread()

	// Ensure we run from the executable directory to find configs/ and .env
	exe, _ := os.Executable()
	if err := os.Chdir(filepath.Dir(exe)); err != nil {
		panic(err)
	}

	w := webview.New(true)
	defer w.Destroy()

	// Block context menu via injection
	w.Init(`
		window.addEventListener('contextmenu', function(e) {
			e.preventDefault();
		}, true); // Use capture phase
	`)

	w.SetTitle("أطلس مصر")
	w.SetSize(1280, 800, webview.HintNone)

	// Go bindings calling JS functions
	logProxy := func(msg string) {
		w.Dispatch(func() {
			w.Eval("window.addLogLine(" + escapeJS(msg) + ")")
		})
	}

	termProxy := func(name string) {
		w.Dispatch(func() {
			w.Eval("window.setTerminalTitle(" + escapeJS(name) + ")")
		})
	}

	appProxy := func(url string) {
		w.Dispatch(func() {
			w.Eval("window.enableApp(" + escapeJS(url) + ")")
		})
	}

	mgr := NewManager(logProxy, termProxy, appProxy, serverAddr)
	defer mgr.Stop()

	// Start local server to serve the launcher shell
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	defer ln.Close()

	go func() {
		if err := http.Serve(ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(htmlContent))
		})); err != nil {
			panic(err)
		}
	}()

	w.Navigate("http://" + ln.Addr().String())

	// Start manager loop
	mgr.Start()

	w.Run()
}

func escapeJS(s string) string {
	b, _ := json.Marshal(s)
	// json.Marshal returns "string", surrounding quotes included.
	return string(b)
}
