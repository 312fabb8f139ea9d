package agent

import (
	"runtime"

	"github.com/joho/godotenv"
)

const osReleasePath = "/etc/os-release"

// HostFacts is what the agent reports about the machine it runs on.
type HostFacts struct {
	DistroID       string
	DistroRelease  string
	DistroCodename string
	MemTotal       int64
	CPUTotal       int
	CPUType        string
}

// ReadHostFacts gathers the facts for the local machine. Missing sources
// leave the matching fields empty.
func ReadHostFacts() HostFacts {
	f := HostFacts{
		MemTotal: memTotal(),
		CPUTotal: runtime.NumCPU(),
		CPUType:  runtime.GOARCH,
	}
	f.DistroID, f.DistroRelease, f.DistroCodename = readOSRelease(osReleasePath)
	return f
}

// readOSRelease reads the distro identity from an os-release file, which
// uses the same KEY=VALUE syntax as a .env file.
func readOSRelease(path string) (id, release, codename string) {
	env, err := godotenv.Read(path)
	if err != nil {
		return "", "", ""
	}
	codename = env["VERSION_CODENAME"]
	if codename == "" {
		codename = env["UBUNTU_CODENAME"]
	}
	return env["ID"], env["VERSION_ID"], codename
}
