package buildkite

const jobArtifactCountQuery = `
query getJobArtifactCount($job_id: ID!) {
  job(uuid: $job_id) {
    ... on JobTypeCommand {
      artifacts {
        count
      }
    }
  }
}`

const jobArtifactsQuery = `
query getJobArtifacts($job_id: ID!, $artifact_count: Int) {
  job(uuid: $job_id) {
    ... on JobTypeCommand {
      artifacts(first: $artifact_count) {
        edges {
          node {
            downloadURL
          }
        }
      }
    }
  }
}`

const buildFromCommitQuery = `
query getBuildFromCommit($pipeline: ID!, $commit_sha: [String!]) {
  pipeline(slug: $pipeline) {
    builds(commit: $commit_sha) {
      edges {
        node {
          url
        }
      }
    }
  }
}`

const buildFromBranchQuery = `
query getBuildFromBranch($pipeline: ID!, $branch: [String!]) {
  pipeline(slug: $pipeline) {
    builds(branch: $branch) {
      edges {
        node {
          url
        }
      }
    }
  }
}`

const userBuildsQuery = `
query GetUserBuilds($limit: Int, $state_filter: [BuildStates!], $job_limit: Int) {
  viewer {
    user {
      builds(first: $limit, state: $state_filter) {
        edges {
          node {
            pipeline {
              name
              color
              slug
              organization {
                slug
              }
            }
            message
            number
            state
            jobs(first: $job_limit) {
              edges {
                node {
                  ... on JobTypeCommand {
                    state
                    passed
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// graphQLRequest is the POST body for every GraphQL call.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse[T any] struct {
	Data   *T `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Per-query response shapes. Pointers mark fields whose absence is an error.

type jobArtifactCountData struct {
	Job *struct {
		Artifacts *struct {
			Count int `json:"count"`
		} `json:"artifacts"`
	} `json:"job"`
}

type jobArtifactsData struct {
	Job *struct {
		Artifacts *struct {
			Edges []struct {
				Node Artifact `json:"node"`
			} `json:"edges"`
		} `json:"artifacts"`
	} `json:"job"`
}

type buildURLData struct {
	Pipeline *struct {
		Builds *struct {
			Edges []struct {
				Node struct {
					URL string `json:"url"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"builds"`
	} `json:"pipeline"`
}

type userBuildsData struct {
	Viewer *struct {
		User *struct {
			Builds *struct {
				Edges []struct {
					Node buildNode `json:"node"`
				} `json:"edges"`
			} `json:"builds"`
		} `json:"user"`
	} `json:"viewer"`
}

type buildNode struct {
	Pipeline *struct {
		Name         string `json:"name"`
		Color        string `json:"color"`
		Slug         string `json:"slug"`
		Organization *struct {
			Slug string `json:"slug"`
		} `json:"organization"`
	} `json:"pipeline"`
	Message string `json:"message"`
	Number  *int   `json:"number"`
	State   string `json:"state"`
	Jobs    *struct {
		Edges []struct {
			Node struct {
				State  *string `json:"state"`
				Passed bool    `json:"passed"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"jobs"`
}

// toBuild translates a viewer build node into the domain model.
func (n buildNode) toBuild(op string) (Build, error) {
	if n.Pipeline == nil {
		return Build{}, &MalformedResponseError{Op: op, Field: "build.pipeline"}
	}
	if n.Number == nil {
		return Build{}, &MalformedResponseError{Op: op, Field: "build.number"}
	}

	pipeline := Pipeline{
		Name:  n.Pipeline.Name,
		Color: n.Pipeline.Color,
		Slug:  n.Pipeline.Slug,
	}
	if n.Pipeline.Organization != nil {
		pipeline.Organization = n.Pipeline.Organization.Slug
	}

	build := Build{
		Number:        *n.Number,
		CommitMessage: n.Message,
		Pipeline:      pipeline,
		State:         n.State,
		Jobs:          []Job{},
	}
	if n.Jobs == nil {
		return build, nil
	}
	for _, edge := range n.Jobs.Edges {
		// Wait, block and trigger steps don't match the command fragment.
		if edge.Node.State == nil {
			continue
		}
		build.Jobs = append(build.Jobs, Job{State: *edge.Node.State, Passed: edge.Node.Passed})
	}
	return build, nil
}
