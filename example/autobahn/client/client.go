// Command client drives the Autobahn Testsuite fuzzing server against the
// library's client role: it fetches the case count, runs every case with an
// echo Handler, and finally triggers the report update.
package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"sync"

	websocket "github.com/arwynhale/wsclient"
)

const agent = "wsclient"

var logger = log.New(os.Stderr, "", log.Lshortfile)

func main() {
	count, err := testCount()
	if err != nil {
		logger.Print(err)
		os.Exit(1)
	}

	for i := 1; i <= count; i++ {
		uri := fmt.Sprintf("ws://localhost:9001/runCase?case=%d&agent=%s", i, agent)
		if err := runCase(uri); err != nil {
			logger.Print(err)
		}
	}

	uri := fmt.Sprintf("ws://localhost:9001/updateReports?agent=%s", agent)
	cfg, err := configFromURI(uri, nil)
	if err != nil {
		logger.Print(err)
		return
	}
	ws, err := websocket.Open(cfg)
	if err != nil {
		logger.Print(err)
		return
	}
	ws.Result()
}

// runCase opens uri with an echo Handler and waits for the server to close
// the connection, sending each received text or binary message back as a
// single frame.
func runCase(uri string) error {
	cfg, err := configFromURI(uri, echoHandler)
	if err != nil {
		return err
	}
	ws, err := websocket.Open(cfg)
	if err != nil {
		return err
	}
	res := ws.Result()
	logger.Printf("case done, close code %v", res.StatusCode)
	return nil
}

func echoHandler(evt websocket.EventType, payload interface{}, c *websocket.Client) {
	switch evt {
	case websocket.EventText:
		c.SendText(payload.(string))
	case websocket.EventBinary:
		c.SendBinary(payload.([]byte))
	}
}

func testCount() (int, error) {
	var count int
	var once sync.Once

	cfg, err := configFromURI("ws://localhost:9001/getCaseCount", func(evt websocket.EventType, payload interface{}, c *websocket.Client) {
		if evt == websocket.EventText {
			n, err := strconv.Atoi(payload.(string))
			if err == nil {
				once.Do(func() { count = n })
			}
		}
	})
	if err != nil {
		return 0, err
	}
	ws, err := websocket.Open(cfg)
	if err != nil {
		return 0, err
	}
	ws.Result()
	if count == 0 {
		return 0, fmt.Errorf("no tests available")
	}
	return count, nil
}

func configFromURI(uri string, handler websocket.Handler) (websocket.Config, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return websocket.Config{}, err
	}
	host := u.Hostname()
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return websocket.Config{}, err
	}
	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return websocket.Config{Host: host, Port: port, Path: path, Handler: handler}, nil
}
