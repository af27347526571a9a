package game

// Name pool the per-room instrument set is drawn from.
var companyNames = []string{
	"Orbital Dynamics",
	"Void Mining Corp",
	"Helios Shipyards",
	"Kessler Salvage",
	"Nebula Logistics",
	"Pulsar Energy",
	"Cryo Foods",
	"Lagrange Habitats",
	"Deepwell Extraction",
	"Aphelion Freight",
	"Starlane Insurance",
	"Quantum Relay Co",
	"Redshift Media",
	"Titan Agri-Domes",
	"Gravitic Systems",
	"Meridian Banking",
}
