package application

import (
	"errors"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/davarch/hudson-remote/internal/domain"
)

const (
	descriptionPath     = "/project/description"
	browserLocationPath = "/project/scm/browser/location"
	moduleLocationPath  = "/project/scm/locations/hudson.scm.SubversionSCM_-ModuleLocation"
	remotePath          = moduleLocationPath + "/remote"
)

var errEmptyConfig = errors.New("config document has no root element")

// encoding/xml only accepts version 1.0 declarations, while current Jenkins
// writes 1.1. The version is lowered for parsing and put back on the tree.
var xml11Decl = regexp.MustCompile(`^(\s*<\?xml\s+version\s*=\s*['"])1\.1(['"])`)

// jobConfig is the parsed config.xml of one job. Setters edit the tree in
// place; text is refreshed by serialize.
type jobConfig struct {
	doc  *etree.Document
	text string
}

func parseJobConfig(raw []byte) (*jobConfig, error) {
	src := raw
	v11 := xml11Decl.Match(raw)
	if v11 {
		src = xml11Decl.ReplaceAll(raw, []byte("${1}1.0${2}"))
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errEmptyConfig
	}
	if v11 {
		restoreVersion(doc, "1.1")
	}
	return &jobConfig{doc: doc, text: string(raw)}, nil
}

func restoreVersion(doc *etree.Document, version string) {
	for _, t := range doc.Child {
		p, ok := t.(*etree.ProcInst)
		if !ok || p.Target != "xml" {
			continue
		}
		p.Inst = strings.Replace(p.Inst, "1.0", version, 1)
		return
	}
}

func (c *jobConfig) textAt(path string) domain.Optional[string] {
	el := c.doc.FindElement(path)
	if el == nil {
		return domain.None[string]()
	}
	return domain.Some(el.Text())
}

func (c *jobConfig) repositoryURL() domain.Optional[string] {
	return c.textAt(remotePath)
}

// repositoryURLs keeps document order. A location without a remote element
// contributes an empty string so positions line up with the locations.
func (c *jobConfig) repositoryURLs() []string {
	locs := c.doc.FindElements(moduleLocationPath)
	urls := make([]string, 0, len(locs))
	for _, loc := range locs {
		remote := loc.SelectElement("remote")
		if remote == nil {
			urls = append(urls, "")
			continue
		}
		urls = append(urls, remote.Text())
	}
	return urls
}

// setText replaces the text of the element at path. It reports false when the
// element does not exist; missing elements are never created.
func (c *jobConfig) setText(path, v string) bool {
	el := c.doc.FindElement(path)
	if el == nil {
		return false
	}
	el.SetText(v)
	return true
}

// setRepositoryURLs replaces every location's remote positionally. The list
// must match the number of locations, each of which must carry a remote.
func (c *jobConfig) setRepositoryURLs(urls []string) bool {
	locs := c.doc.FindElements(moduleLocationPath)
	if len(locs) == 0 || len(locs) != len(urls) {
		return false
	}
	remotes := make([]*etree.Element, 0, len(locs))
	for _, loc := range locs {
		remote := loc.SelectElement("remote")
		if remote == nil {
			return false
		}
		remotes = append(remotes, remote)
	}
	for i, remote := range remotes {
		remote.SetText(urls[i])
	}
	return true
}

func (c *jobConfig) serialize() error {
	s, err := c.doc.WriteToString()
	if err != nil {
		return err
	}
	c.text = s
	return nil
}
