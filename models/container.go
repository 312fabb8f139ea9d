package models

// Container is the desired state of one container on a host.
type Container struct {
	Name          string `json:"name"`
	Template      string `json:"template,omitempty"`
	Release       string `json:"release,omitempty"`
	InitScript    string `json:"init_script,omitempty"`
	DateRequested int64  `json:"date_requested,omitempty"`
	DateCreated   int64  `json:"date_created,omitempty"`
	MaxMemory     int64  `json:"max_memory,omitempty"`
	ReCreate      bool   `json:"re_create"`
	KeepRunning   bool   `json:"keep_running"`
}

// ContainerProps is what a host agent reports about a container it runs.
type ContainerProps struct {
	Name        string `json:"name" binding:"required"`
	MaxMemory   int64  `json:"max_memory"`
	DateCreated int64  `json:"date_created"`
}

// CreateContainerRequest is the body for POST /api/v1/container/
type CreateContainerRequest struct {
	Name       string `json:"name" binding:"required"`
	Template   string `json:"template" binding:"required"`
	Release    string `json:"release" binding:"required"`
	MaxMemory  int64  `json:"max_memory"`
	InitScript string `json:"init_script"`
}

// CreateContainerResponse is the response for POST /api/v1/container/
type CreateContainerResponse struct {
	Host      string    `json:"host"`
	Container Container `json:"container"`
}

// UpdateContainerRequest is the body for PATCH /api/v1/host/:name/container/:container/
type UpdateContainerRequest struct {
	MaxMemory   *int64 `json:"max_memory"`
	DateCreated *int64 `json:"date_created"`
}

// ContainerStateForm is the dashboard form posted to change a container.
// KeepRunning stays a string: browsers send every form value as text.
type ContainerStateForm struct {
	Host        string `form:"host"`
	Name        string `form:"name"`
	URL         string `form:"url"`
	KeepRunning string `form:"keep_running"`
}
