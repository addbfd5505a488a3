package canon

// snapshotTeams is the checked-in snapshot of FBS program slugs, the
// third backing source for the canonical index. It self-heals gaps in
// the registry and history sources for a season and is reviewed once a
// year when conference membership changes.
//
// Note jacksonville-state and kennesaw-state: "state" slugs are valid
// FBS members, which is why the denylist is an exact set plus one narrow
// suffix pattern rather than anything broader.
var snapshotTeams = []string{
	// ACC
	"boston-college", "california", "clemson", "duke", "florida-state",
	"georgia-tech", "louisville", "miami-fl", "north-carolina",
	"north-carolina-state", "pittsburgh", "smu", "stanford", "syracuse",
	"virginia", "virginia-tech", "wake-forest",
	// Big Ten
	"illinois", "indiana", "iowa", "maryland", "michigan",
	"michigan-state", "minnesota", "nebraska", "northwestern",
	"ohio-state", "oregon", "penn-state", "purdue", "rutgers", "ucla",
	"southern-california", "washington", "wisconsin",
	// Big 12
	"arizona", "arizona-state", "baylor", "brigham-young", "cincinnati",
	"colorado", "houston", "iowa-state", "kansas", "kansas-state",
	"oklahoma-state", "tcu", "texas-tech", "central-florida", "utah",
	"west-virginia",
	// SEC
	"alabama", "arkansas", "auburn", "florida", "georgia", "kentucky",
	"lsu", "mississippi", "mississippi-state", "missouri", "oklahoma",
	"south-carolina", "tennessee", "texas", "texas-am", "vanderbilt",
	// American
	"army", "charlotte", "east-carolina", "florida-atlantic", "memphis",
	"navy", "north-texas", "rice", "south-florida", "temple", "tulane",
	"tulsa", "uab", "utsa",
	// Conference USA
	"florida-international", "jacksonville-state", "kennesaw-state",
	"liberty", "louisiana-tech", "middle-tennessee", "new-mexico-state",
	"sam-houston", "utep", "western-kentucky",
	// MAC
	"akron", "ball-state", "bowling-green", "buffalo", "central-michigan",
	"eastern-michigan", "kent-state", "massachusetts", "miami-oh",
	"northern-illinois", "ohio", "toledo", "western-michigan",
	// Mountain West
	"air-force", "boise-state", "colorado-state", "fresno-state",
	"hawaii", "nevada", "new-mexico", "san-diego-state",
	"san-jose-state", "unlv", "utah-state", "wyoming",
	// Sun Belt
	"appalachian-state", "arkansas-state", "coastal-carolina",
	"georgia-southern", "georgia-state", "james-madison", "louisiana",
	"louisiana-monroe", "marshall", "old-dominion", "south-alabama",
	"southern-mississippi", "texas-state", "troy",
	// Independents
	"notre-dame", "connecticut",
}

// canaryTeams are perennially-present programs injected after the source
// union. A canary missing from every source means that source run was
// silently truncated; injecting them keeps one bad source from poisoning
// downstream alias validation.
var canaryTeams = []string{
	"alabama", "georgia", "ohio-state", "michigan", "texas", "oklahoma",
	"oregon", "southern-california", "notre-dame", "clemson",
	"florida-state", "penn-state",
}
