package dbscan

// Membership is the cluster standing of a single point.
type Membership uint8

const (
	// Unassigned means the point has not been classified yet.
	Unassigned Membership = iota
	// Noise means the point could not be attached to any valid cluster.
	Noise
	// Member means the point belongs to the cluster named by ClusterID.
	Member
)

func (m Membership) String() string {
	switch m {
	case Unassigned:
		return "unassigned"
	case Noise:
		return "noise"
	case Member:
		return "member"
	default:
		return "invalid"
	}
}

// Undefined marks a reachability or core distance that has not been
// computed, or does not exist.
const Undefined = -1.0

// PointState is the per-point bookkeeping of a clustering run.
//
// Membership and ClusterID move together: ClusterID is positive exactly when
// Membership is Member. Use assign and markNoise rather than writing the
// fields directly.
type PointState struct {
	Visited    bool
	Core       bool
	Membership Membership
	ClusterID  int

	// Reachability is only maintained by OPTICS.
	Reachability float64
}

func (s *PointState) assign(clusterID int) {
	s.Membership = Member
	s.ClusterID = clusterID
}

func (s *PointState) markNoise() {
	s.Membership = Noise
	s.ClusterID = 0
}

// hasCluster reports whether the point is a committed cluster member.
func (s *PointState) hasCluster() bool {
	return s.Membership == Member
}

// newStates returns n fresh point states.
func newStates(n int) []PointState {
	states := make([]PointState, n)
	for i := range states {
		states[i].Reachability = Undefined
	}
	return states
}

// Cluster is a committed cluster: an id and the indices of its members in
// discovery order. It owns no point data.
type Cluster struct {
	ID     int
	Points []int
}

// Size returns the number of points in the cluster.
func (c Cluster) Size() int {
	return len(c.Points)
}
