package lcu

// Summoner is the slice of the summoner profile the automation needs.
type Summoner struct {
	SummonerID  int64  `json:"summonerId"`
	PUUID       string `json:"puuid"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	DisplayName string `json:"displayName"`
}

// SearchState is the matchmaking search-state resource.
type SearchState struct {
	SearchState string `json:"searchState"`
}

// ChampSelectSession is the champ-select session resource, reduced to the
// fields the pollers and the lobby collector read.
type ChampSelectSession struct {
	GameID int64 `json:"gameId"`
	// Pointer so that a session payload still missing the field (mid
	// transition) is distinguishable from seat 0.
	LocalPlayerCellID *int                  `json:"localPlayerCellId"`
	Timer             ChampSelectTimer      `json:"timer"`
	MyTeam            []ChampSelectPlayer   `json:"myTeam"`
	TheirTeam         []ChampSelectPlayer   `json:"theirTeam"`
	Actions           [][]ChampSelectAction `json:"actions"`
	Bans              ChampSelectBans       `json:"bans"`
}

type ChampSelectTimer struct {
	Phase            string `json:"phase"`
	TotalTimeInPhase int    `json:"totalTimeInPhase"`
	TimeLeftInPhase  int    `json:"timeLeftInPhase"`
}

type ChampSelectPlayer struct {
	CellID             int    `json:"cellId"`
	ChampionID         int    `json:"championId"`
	SummonerID         int64  `json:"summonerId"`
	AssignedPosition   string `json:"assignedPosition"`
	NameVisibilityType string `json:"nameVisibilityType"`
	Team               int    `json:"team"`
}

type ChampSelectAction struct {
	ID           int    `json:"id"`
	ActorCellID  int    `json:"actorCellId"`
	ChampionID   int    `json:"championId"`
	Type         string `json:"type"` // "pick" or "ban"
	Completed    bool   `json:"completed"`
	IsInProgress bool   `json:"isInProgress"`
}

type ChampSelectBans struct {
	MyTeamBans    []int `json:"myTeamBans"`
	TheirTeamBans []int `json:"theirTeamBans"`
	NumBans       int   `json:"numBans"`
}

// GridChampion is one entry of the champion grid (and of the legacy
// inventory fallback, which shares the id/name fields).
type GridChampion struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RegionLocale is the riotclient region-locale resource.
type RegionLocale struct {
	Region    string `json:"region"`
	WebRegion string `json:"webRegion"`
	Locale    string `json:"locale"`
}

// ChatSession is the auxiliary chat session resource.
type ChatSession struct {
	State string `json:"state"`
}

// ChatParticipants is the auxiliary chat participants resource.
type ChatParticipants struct {
	Participants []ChatParticipant `json:"participants"`
}

type ChatParticipant struct {
	CID      string `json:"cid"`
	GameName string `json:"game_name"`
	GameTag  string `json:"game_tag"`
}
