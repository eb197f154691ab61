package main

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yola1107/kratos/contrib/log/zap/v2"
	"github.com/yola1107/kratos/v2/log"
)

const addr = "http://127.0.0.1:8000"

var scenarios = []struct {
	name string
	body string
}{
	{"mutant dna", `{"dna":["ATGCGA","CAGTGC","TTATGT","AGAAGG","CCCCTA","TCACTG"]}`},
	{"human dna", `{"dna":["ATGCGA","CCGHCC","TTATGT","AAFAGG","CTCCTA","TCACTG"]}`},
	{"duplicate mutant dna", `{"dna":["ATGCGA","CAGTGC","TTATGT","AGAAGG","CCCCTA","TCACTG"]}`},
	{"malformed json", `{"dna": [`},
	{"missing dna", `{}`},
	{"ragged matrix", `{"dna":["ATGC","AT","ATGC","ATGC"]}`},
}

func main() {
	zapLogger := zap.New(nil)
	defer zapLogger.Close()

	log.SetLogger(zapLogger)

	log.Infof("start http client")
	defer log.Infof("close http client")

	client := &http.Client{Timeout: 5 * time.Second}

	for {
		for _, sc := range scenarios {
			code, body, err := call(client, http.MethodPost, addr+"/mutant", sc.body)
			if err != nil {
				log.Errorf("http-> /mutant %s: %v", sc.name, err)
				continue
			}
			log.Infof("http-> /mutant %s: code=%d body=%s", sc.name, code, body)
		}

		code, body, err := call(client, http.MethodGet, addr+"/stats", "")
		if err != nil {
			log.Errorf("http-> /stats: %v", err)
		} else {
			log.Infof("http-> /stats: code=%d body=%s", code, body)
		}

		time.Sleep(time.Second * 10)
	}
}

func call(client *http.Client, method, url, body string) (int, string, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(payload), nil
}
