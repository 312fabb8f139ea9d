package database

// Host persists an enlisted machine. APIKeyHash holds a bcrypt hash of the
// key the host agent authenticates with.
type Host struct {
	Name           string `gorm:"primaryKey"`
	DistroID       string
	DistroRelease  string
	DistroCodename string
	MemTotal       int64
	CPUTotal       int
	CPUType        string
	Enlisted       bool
	APIKeyHash     string
	Containers     []Container `gorm:"foreignKey:HostName;references:Name"`
}

// Container persists the desired state of a container on a host.
type Container struct {
	ID            uint   `gorm:"primaryKey"`
	HostName      string `gorm:"not null;uniqueIndex:idx_host_container"`
	Name          string `gorm:"not null;uniqueIndex:idx_host_container"`
	Template      string
	Release       string
	InitScript    string
	DateRequested int64
	DateCreated   int64
	MaxMemory     int64
	ReCreate      bool
	KeepRunning   bool
}
