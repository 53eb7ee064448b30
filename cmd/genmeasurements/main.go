// Command genmeasurements writes a synthetic measurements file in the
// format spec.md §2 describes: one `<station>;<temperature>\n` record per
// line, station drawn from a fixed pool of names, temperature a signed
// fixed-point decimal with exactly one fractional digit and magnitude
// under 100. It replaces the teacher's dead 1brc/main.go stub, which
// named a weather_stations.csv file but never read or wrote one.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.coldcutz.net/go-stuff/utils"
)

var (
	out      = flag.String("out", "measurements.txt", "output file path")
	rows     = flag.Int64("rows", 1_000_000, "number of measurement rows to write")
	seed     = flag.Int64("seed", 1, "PRNG seed, for reproducible fixtures")
	stations = flag.Int("stations", 0, "number of distinct station names to use (0 = all of the built-in pool)")
)

func main() {
	flag.Parse()

	_, done, log, err := utils.StdSetup()
	if err != nil {
		panic(err)
	}
	done()

	if err := run(); err != nil {
		log.Error("error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	names := stationPool
	if *stations > 0 && *stations < len(names) {
		names = names[:*stations]
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	defer w.Flush()

	r := rand.New(rand.NewSource(*seed))
	for i := int64(0); i < *rows; i++ {
		name := names[r.Intn(len(names))]
		tenths := int32(r.Intn(1999) - 999) // [-99.9, 99.9]
		writeRecord(w, name, tenths)
	}
	return w.Flush()
}

// writeRecord writes one "<name>;<sign><whole>.<frac>\n" line, matching
// the fixed-point shape internal/tempdecode parses.
func writeRecord(w *bufio.Writer, name string, tenths int32) {
	w.WriteString(name)
	w.WriteByte(';')
	if tenths < 0 {
		w.WriteByte('-')
		tenths = -tenths
	}
	fmt.Fprintf(w, "%d.%d\n", tenths/10, tenths%10)
}

// stationPool is a fixed pool of real-world place names, the same shape
// as the station list a canonical 1BRC input draws from (spec.md §2):
// varied lengths from 3 to 27 bytes, ASCII and non-ASCII UTF-8 both
// represented so generated fixtures exercise both the fast 16-byte
// signature path and the slow tail-compare path (spec.md §8.2).
var stationPool = []string{
	"Aarau", "Abha", "Abidjan", "Abéché", "Accra", "Addis Ababa",
	"Adelaide", "Aden", "Ahvaz", "Albuquerque", "Alexandra",
	"Alexandria", "Algiers", "Alice Springs", "Almaty", "Amman",
	"Amsterdam", "Anadyr", "Anchorage", "Andorra la Vella", "Ankara",
	"Antananarivo", "Antsiranana", "Arkhangelsk", "Ashgabat", "Asmara",
	"Assab", "Astana", "Athens", "Atlanta", "Auckland",
	"Austin", "Baghdad", "Baguio", "Baku", "Baltimore",
	"Bamako", "Bangkok", "Bangui", "Banjul", "Barcelona",
	"Bata", "Batumi", "Beijing", "Beirut", "Belgrade",
	"Belize City", "Benghazi", "Bergen", "Berlin", "Bilbao",
	"Birao", "Bishkek", "Bissau", "Blantyre", "Bloemfontein",
	"Boise", "Bordeaux", "Bosaso", "Boston", "Bouaké",
	"Bratislava", "Brazzaville", "Bridgetown", "Brisbane", "Brussels",
	"Bucharest", "Budapest", "Bujumbura", "Bulawayo", "Burnie",
	"Busan", "Cabo San Lucas", "Cairns", "Cairo", "Calgary",
	"Canberra", "Cape Town", "Changsha", "Charlotte", "Chiang Mai",
	"Chicago", "Chihuahua", "Chisinau", "Chittagong", "Chongqing",
	"Christchurch", "City of San Marino", "Colombo", "Columbus",
	"Conakry", "Copenhagen", "Cotonou", "Cracow", "Da Lat",
	"Da Nang", "Dakar", "Dallas", "Damascus", "Dampier",
	"Dar es Salaam", "Darwin", "Denpasar", "Denver", "Detroit",
	"Dhaka", "Dikson", "Dili", "Djibouti", "Dodoma",
	"Dolisie", "Douala", "Dubai", "Dublin", "Dunedin",
	"Durban", "Dushanbe", "Edinburgh of the Seven Seas", "Edmonton",
	"El Paso", "Entebbe", "Erbil", "Erzurum", "Fairbanks",
	"Fianarantsoa", "Flores, Petén", "Frankfurt", "Fresno", "Fukuoka",
	"Gabès", "Gaborone", "Gagnoa", "Gangtok", "Garissa",
	"Garoua", "George Town", "Ghanzi", "Gjoa Haven", "Guadalajara",
	"Guangzhou", "Guatemala City", "Halifax", "Hamburg", "Hamilton",
	"Harare", "Harbin", "Hargeisa", "Hat Yai", "Havana",
	"Helsinki", "Heraklion", "Hiroshima", "Ho Chi Minh City",
	"Honiara", "Honolulu", "Houston", "Ifrane", "Indianapolis",
	"Iqaluit", "Irkutsk", "Istanbul", "İzmir", "Jacksonville",
	"Jakarta", "Jayapura", "Jerusalem", "Johannesburg", "Jos",
	"Juba", "Kabul", "Kampala", "Kandi", "Kankan",
	"Kano", "Kansas City", "Karachi", "Karonga", "Kathmandu",
	"Khartoum", "Kingston", "Kinshasa", "Kolkata", "Kuala Lumpur",
	"Kumasi", "Kunming", "Kuopio", "Kuwait City", "Kyoto",
	"La Ceiba", "La Paz", "Lagos", "Lahore", "Lake Havasu City",
	"Lake Tekapo", "Las Palmas de Gran Canaria", "Las Vegas",
	"Launceston", "Lhasa", "Libreville", "Lisbon", "Livingstone",
	"Ljubljana", "Lodwar", "Lomé", "London", "Los Angeles",
	"Louisville", "Luanda", "Lubumbashi", "Lusaka", "Luxembourg City",
	"Lviv", "Lyon", "Madrid", "Mahajanga", "Makassar",
	"Managua", "Manama", "Mandalay", "Mango", "Manila",
	"Maputo", "Marrakesh", "Marseille", "Maun", "Medan",
	"Mek'ele", "Melbourne", "Memphis", "Mexicali", "Mexico City",
	"Miami", "Milan", "Milwaukee", "Minneapolis", "Minsk",
	"Mogadishu", "Mombasa", "Monaco", "Moncton", "Monterrey",
	"Montevideo", "Montreal", "Moscow", "Mumbai", "Murmansk",
	"Muscat", "Mzuzu", "N'Djamena", "Nagoya", "Nairobi",
	"Nakhon Ratchasima", "Napier", "Napoli", "Nashville",
	"Nassau", "Ndola", "New Delhi", "New Orleans", "New York City",
	"Ngaoundéré", "Niamey", "Nicosia", "Niigata", "Nouadhibou",
	"Nouakchott", "Novosibirsk", "Nuuk", "Odesa", "Odienné",
	"Oklahoma City", "Omaha", "Oranjestad", "Oslo", "Ottawa",
	"Ouagadougou", "Ouahigouya", "Ouarzazate", "Oulu", "Palembang",
	"Palermo", "Palm Springs", "Palmerston North", "Panama City",
	"Parakou", "Paris", "Perth", "Petropavlovsk-Kamchatsky",
	"Philadelphia", "Phnom Penh", "Phoenix", "Pittsburgh",
	"Podgorica", "Pointe-Noire", "Pontianak", "Port Moresby",
	"Port Sudan", "Port Vila", "Port-Gentil", "Portland (OR)",
	"Porto", "Prague", "Praia", "Pretoria", "Pyongyang",
	"Rabat", "Rangpur", "Reggane", "Reykjavík", "Riga",
	"Riyadh", "Rome", "Roseau", "Rostov-on-Don", "Sacramento",
	"Saint Petersburg", "Saint-Pierre", "Salt Lake City", "San Antonio",
	"San Diego", "San Francisco", "San Jose", "San Juan",
	"San Salvador", "Sana'a", "Santo Domingo", "Sapporo",
	"Sarajevo", "Saskatoon", "Seattle", "Seoul", "Seville",
	"Shanghai", "Singapore", "Skopje", "Sochi", "Sofia",
	"Sokoto", "Split", "St. John's", "St. Louis", "Stockholm",
	"Surabaya", "Suva", "Suwałki", "Szczecin", "Tabora",
	"Tabriz", "Taipei", "Tallinn", "Tamale", "Tamanrasset",
	"Tampa", "Tangier", "Tanushimaru", "Taoyuan", "Tashkent",
	"Tauranga", "Tbilisi", "Tegucigalpa", "Tehran", "Tel Aviv",
	"Thessaloniki", "Thiès", "Tijuana", "Timbuktu", "Tirana",
	"Toamasina", "Tokyo", "Toliara", "Toluca", "Toronto",
	"Tripoli", "Tromsø", "Tucson", "Tunis", "Ulaanbaatar",
	"Upington", "Vaduz", "Valencia", "Valletta", "Vancouver",
	"Veracruz", "Vienna", "Vientiane", "Villahermosa", "Vilnius",
	"Virginia Beach", "Vladivostok", "Warsaw", "Washington, D.C.",
	"Wau", "Wellington", "Whitehorse", "Wichita", "Winnipeg",
	"Wrocław", "Xi'an", "Yakutsk", "Yangon", "Yaoundé",
	"Yellowknife", "Yerevan", "Yinchuan", "Zagreb", "Zanzibar City",
	"Zürich",
}
