package application

import (
	"net/url"
	"strconv"
	"strings"
)

type Endpoints struct {
	Status        string
	Config        string
	Build         string
	Enable        string
	Disable       string
	Delete        string
	WipeWorkspace string
}

func JobEndpoints(base, name string) Endpoints {
	job := jobURL(base, name)
	return Endpoints{
		Status:        job + "/api/json",
		Config:        job + "/config.xml",
		Build:         job + "/build",
		Enable:        job + "/enable",
		Disable:       job + "/disable",
		Delete:        job + "/doDelete",
		WipeWorkspace: job + "/doWipeOutWorkspace",
	}
}

func BuildStatusURL(base, name string, number int) string {
	return jobURL(base, name) + "/" + strconv.Itoa(number) + "/api/json"
}

func QueueURL(base string) string { return trimSlash(base) + "/queue/api/json" }

func JobListURL(base string) string { return trimSlash(base) + "/api/json" }

func CreateItemURL(base string) string { return trimSlash(base) + "/createItem" }

func jobURL(base, name string) string {
	return trimSlash(base) + "/job/" + url.PathEscape(strings.TrimSpace(name))
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
