package scenes

type Group string

const (
	GroupGodhome   Group = "godhome"
	GroupDreamBoss Group = "dream"
)

// Names are kept as the SmartNail mod listed them, including misspelled
// Godhome entries that never match a scene the game reports.
var godhomeScenes = []string{
	"GG_Vengefly", "GG_Vengefly_V", "GG_Gruz_Mother", "GG_Gruz_Mother_V", "GG_False_Knight",
	"GG_Mega_Moss_Chagrer", "GG_Hornet_1", "GG_Ghost_Gorb", "GG_Ghost_Gorb_V", "GG_Dung_Defender",
	"GG_Mage_Knight", "GG_Mage_Knight_V", "GG_Brooding_Mawlek", "GG_Brooding_Mawlek_V",
	"GG_Nailmasters", "GG_Mighty_Zote", "GG_Ghost_Xero", "GG_Ghost_Xero_V", "GG_Crystal_Guardian",
	"GG_Soul_Master", "GG_Obblobles", "GG_Mantis_Lords", "GG_Mantis_Lords_V", "GG_Ghost_Marmu",
	"GG_Ghost_Marmu_V", "GG_Flukemarm", "GG_Broken_Vessel", "GG_Ghost_Galien", "GG_Painter",
	"GG_Hive_Knight", "GG_Ghost_Hu", "GG_Collector", "GG_Collector_V", "GG_God_Tamer", "GG_Grimm",
	"GG_Watcher_Knights", "GG_Uumuu", "GG_Uumuu_V", "GG_Nosk", "GG_Nosk_V", "GG_Nosk_Hornet",
	"GG_Sly", "GG_Hornet_2", "GG_Crystal_Guardian_2", "GG_Lost_Kin", "GG_Ghost_No_Eyes",
	"GG_Ghost_No_Eyes_V", "GG_Triador_Lord", "GG_Whote_Defender", "GG_Soul_Tyrant",
	"GG_Ghost_Markoth", "GG_Ghost_Markoth_V", "GG_Grey_Prince_Zote", "GG_Failed_Champion",
	"GG_Grimm_Nightmare", "GG_Hollw_Knight", "GG_Radiacne",
}

var dreamBossScenes = []string{
	"Dream_01_False_Knight",
	"Dream_02_Mage_Lord",
	"Grimm_Nightmare",
	"Dream_Mighty_Zote",
	"Dream_03_Infected_Knight",
	"Dream_04_White_Defender",
}

// Menu and quit scenes are never part of a play session.
var excludedScenes = []string{
	"Menu_Title",
	"Quit_To_Menu",
}
