// ABOUTME: Manual owner-id fallback table for ids the owners API no longer
// ABOUTME: returns, typically deactivated or system accounts
package models

// manualOwners maps known owner ids that the owners endpoint omits.
var manualOwners = map[string]string{
	"30370889":   "Dhasu Prasanna",
	"30685617":   "Marjan Moazam",
	"827734017":  "Epicore Mail",
	"1016954349": "Service RTS",
	"1342342618": "Mikael Kjærgaard",
	"1364655067": "Maria del Carmen Riccio-kjærgaard",
	"1316638712": "Sofie Dahlerup (Deactivated/Removed)",
	"712401897":  "Newsletter RTS (Deactivated/Removed)",
	"1319774167": "Algori Marketing (Deactivated/Removed)",
	"598095810":  "Developer Account (Deactivated/Removed)",
	"2032328179": "Developer Account (Deactivated/Removed)",
	"1342332605": "Søren Østergaard (Deactivated/Removed)",
	"1284170621": "Daniel Michalik (Deactivated/Removed)",
}

// ManualOwnerName resolves an owner id through the fallback table, returning
// the raw id unchanged when no override exists.
func ManualOwnerName(id string) string {
	if name, ok := manualOwners[id]; ok {
		return name
	}
	return id
}
