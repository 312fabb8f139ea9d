package models

// Host is a machine running containers for the fleet.
type Host struct {
	Name           string      `json:"name"`
	DistroID       string      `json:"distro_id"`
	DistroRelease  string      `json:"distro_release"`
	DistroCodename string      `json:"distro_codename"`
	MemTotal       int64       `json:"mem_total"`
	CPUTotal       int         `json:"cpu_total"`
	CPUType        string      `json:"cpu_type"`
	Enlisted       bool        `json:"enlisted"`
	Containers     []Container `json:"containers,omitempty"`
}

// RegisterHostRequest is the body for POST /api/v1/host/
type RegisterHostRequest struct {
	Name           string           `json:"name" binding:"required"`
	DistroID       string           `json:"distro_id"`
	DistroRelease  string           `json:"distro_release"`
	DistroCodename string           `json:"distro_codename"`
	MemTotal       int64            `json:"mem_total"`
	CPUTotal       int              `json:"cpu_total"`
	CPUType        string           `json:"cpu_type"`
	APIKey         string           `json:"api_key" binding:"required"`
	Containers     []ContainerProps `json:"containers" binding:"dive"`
}

// UpdateHostRequest is the body for PATCH /api/v1/host/:name/
// Nil fields are left untouched. A non-nil Containers replaces the host's
// reported container list.
type UpdateHostRequest struct {
	DistroID       *string           `json:"distro_id"`
	DistroRelease  *string           `json:"distro_release"`
	DistroCodename *string           `json:"distro_codename"`
	MemTotal       *int64            `json:"mem_total"`
	CPUTotal       *int              `json:"cpu_total"`
	CPUType        *string           `json:"cpu_type"`
	Containers     *[]ContainerProps `json:"containers" binding:"omitempty,dive"`
}

// EnlistHostRequest is the body for PATCH /api/v1/host/:name/enlist/
type EnlistHostRequest struct {
	Enlisted *bool `json:"enlisted" binding:"required"`
}

// HostListResponse is the response for GET /api/v1/host/
type HostListResponse struct {
	Hosts []string `json:"hosts"`
}
