package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/pflag"

	"github.com/wcharczuk/roleprov/internal/iamlite"
	"github.com/wcharczuk/roleprov/internal/spy"
)

var (
	flagAction = pflag.String("action", iamlite.ActionCreateRole, "Specific actions to print (leave blank to print all)")
	flagLimit  = pflag.Int("limit", 1, "The number to print in total")
)

func main() {
	pflag.Parse()

	if len(pflag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "read-response-bodies; provide a filename as an argument")
		os.Exit(1)
	}

	f, err := os.Open(pflag.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read-response-bodies; unable to open source file: %+v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	var count int
	for scanner.Scan() {
		line := scanner.Text()
		var req spy.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			fmt.Fprintf(os.Stderr, "read-response-bodies; unable to deserialize source file: %+v\n", err)
			os.Exit(1)
		}
		if *flagAction != "" {
			form, err := url.ParseQuery(req.RequestBody)
			if err != nil || form.Get(iamlite.ParamAction) != *flagAction {
				continue
			}
		}
		fmt.Fprintf(os.Stdout, "%s %d\n%s\n", req.Method, req.StatusCode, req.ResponseBody)
		count++
		if *flagLimit > 0 && count >= *flagLimit {
			break
		}
	}
}
