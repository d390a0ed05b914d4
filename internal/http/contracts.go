package http

import (
	"github.com/scanflow/scanctl/internal/folder"
	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/job"
	"github.com/scanflow/scanctl/internal/scan"
	"github.com/scanflow/scanctl/internal/upload"
	"github.com/scanflow/scanctl/internal/workflow"
)

// Client implements every service interface the workflow depends on.
var (
	_ iam.Minter      = (*Client)(nil)
	_ folder.Store    = (*Client)(nil)
	_ upload.Uploader = (*Client)(nil)
	_ upload.Searcher = (*Client)(nil)
	_ job.Reader      = (*Client)(nil)
	_ scan.Starter    = (*Client)(nil)

	_ workflow.Service = (*Client)(nil)
)
