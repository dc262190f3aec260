package observability

import "net"

// GetOutboundIP returns the local address used for outbound traffic, or
// "" when there is no route.
func GetOutboundIP() string {
	// udp dial sends nothing, it only resolves the route
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
