package application

import (
	"testing"

	"github.com/davarch/hudson-remote/internal/domain"
	"go.uber.org/zap/zaptest"
)

const testBase = "http://ci"

const svnConfig = `<?xml version='1.0' encoding='UTF-8'?>
<project>
  <actions/>
  <description>nightly</description>
  <keepDependencies>false</keepDependencies>
  <scm class="hudson.scm.SubversionSCM">
    <locations>
      <hudson.scm.SubversionSCM_-ModuleLocation>
        <remote>svn://a</remote>
        <local>a</local>
      </hudson.scm.SubversionSCM_-ModuleLocation>
      <hudson.scm.SubversionSCM_-ModuleLocation>
        <remote>svn://b</remote>
        <local>b</local>
      </hudson.scm.SubversionSCM_-ModuleLocation>
    </locations>
    <browser class="hudson.scm.browsers.ViewSVN">
      <location>http://viewsvn/</location>
    </browser>
  </scm>
  <builders/>
</project>
`

const bareConfig = `<?xml version='1.0' encoding='UTF-8'?>
<project>
  <keepDependencies>false</keepDependencies>
  <scm class="hudson.scm.NullSCM"/>
</project>
`

func newTestServer(t *testing.T) (*Server, *domain.MockFetcher) {
	t.Helper()
	f := domain.NewMockFetcher()
	return NewServer(testBase+"/", f, zaptest.NewLogger(t)), f
}

// serveJob registers a job in the job list and serves both of its documents.
func serveJob(f *domain.MockFetcher, name, status, config string) {
	e := JobEndpoints(testBase, name)
	f.Serve(e.Status, status)
	f.Serve(e.Config, config)
}
