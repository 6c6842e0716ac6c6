package gesture

import "sync"

var (
	builtinOnce sync.Once
	builtinCat  *Catalogue
)

// Builtin returns the built-in gesture catalogue. The catalogue is built on
// first use and shared by all callers.
func Builtin() *Catalogue {
	builtinOnce.Do(func() {
		c, err := New(builtinEntries)
		if err != nil {
			panic("gesture: built-in catalogue is invalid: " + err.Error())
		}
		builtinCat = c
	})
	return builtinCat
}

// builtinEntries is ordered by category. The matcher breaks ties by this
// order, so entries must not be reshuffled casually.
var builtinEntries = []Entry{
	// ── Greetings ──
	{ID: "salam", Urdu: "سلام", Pashto: "سلام ورور", English: "Hello/Greetings", Category: CategoryGreeting},
	{ID: "shukriya", Urdu: "شکریہ", Pashto: "مننه", English: "Thank you", Category: CategoryGreeting},
	{ID: "khuda_hafiz", Urdu: "خدا حافظ", Pashto: "خدای پامان", English: "Goodbye", Category: CategoryGreeting},
	{ID: "maaf_karna", Urdu: "معاف کرنا", Pashto: "بخښنه غواړم", English: "Sorry", Category: CategoryGreeting},
	{ID: "kya_hal", Urdu: "کیا حال", Pashto: "څه خبره", English: "How are you", Category: CategoryGreeting},
	{ID: "khush_amadeed", Urdu: "خوش آمدید", Pashto: "ښه راغلاست", English: "Welcome", Category: CategoryGreeting},
	{ID: "allah_hafiz", Urdu: "اللہ حافظ", Pashto: "اللہ دی پامان", English: "May Allah protect you", Category: CategoryGreeting},

	// ── Family ──
	{ID: "ammi", Urdu: "امی", Pashto: "مور", English: "Mother", Category: CategoryFamily},
	{ID: "abbu", Urdu: "ابو", Pashto: "پلار", English: "Father", Category: CategoryFamily},
	{ID: "bhai", Urdu: "بھائی", Pashto: "ورور", English: "Brother", Category: CategoryFamily},
	{ID: "behn", Urdu: "بہن", Pashto: "خور", English: "Sister", Category: CategoryFamily},
	{ID: "dada", Urdu: "دادا", Pashto: "نیکه", English: "Grandfather", Category: CategoryFamily},
	{ID: "dadi", Urdu: "دادی", Pashto: "انا", English: "Grandmother", Category: CategoryFamily},
	{ID: "chacha", Urdu: "چاچا", Pashto: "تره", English: "Uncle", Category: CategoryFamily},
	{ID: "khala", Urdu: "خالہ", Pashto: "ترور", English: "Aunt", Category: CategoryFamily},
	{ID: "beta", Urdu: "بیٹا", Pashto: "زوی", English: "Son", Category: CategoryFamily},
	{ID: "beti", Urdu: "بیٹی", Pashto: "لور", English: "Daughter", Category: CategoryFamily},

	// ── Everyday objects ──
	{ID: "paani", Urdu: "پانی", Pashto: "اوبه", English: "Water", Category: CategoryNeeds},
	{ID: "khana", Urdu: "کھانا", Pashto: "خواړه", English: "Food", Category: CategoryNeeds},
	{ID: "ghar", Urdu: "گھر", Pashto: "کور", English: "Home", Category: CategoryNeeds},
	{ID: "kitab", Urdu: "کتاب", Pashto: "کتاب", English: "Book", Category: CategoryNeeds},
	{ID: "qalam", Urdu: "قلم", Pashto: "قلم", English: "Pen", Category: CategoryNeeds},
	{ID: "kaam", Urdu: "کام", Pashto: "کار", English: "Work", Category: CategoryNeeds},
	{ID: "dost", Urdu: "دوست", Pashto: "ملګری", English: "Friend", Category: CategoryNeeds},
	{ID: "madad", Urdu: "مدد", Pashto: "مرسته", English: "Help", Category: CategoryNeeds},
	{ID: "kamra", Urdu: "کمرہ", Pashto: "کوټه", English: "Room", Category: CategoryNeeds},
	{ID: "darwaza", Urdu: "دروازہ", Pashto: "دروازه", English: "Door", Category: CategoryNeeds},

	// ── Food ──
	{ID: "roti", Urdu: "روٹی", Pashto: "ډوډۍ", English: "Bread", Category: CategoryFood},
	{ID: "chawal", Urdu: "چاول", Pashto: "وریژې", English: "Rice", Category: CategoryFood},
	{ID: "gosht", Urdu: "گوشت", Pashto: "غوښه", English: "Meat", Category: CategoryFood},
	{ID: "dudh", Urdu: "دودھ", Pashto: "شیدې", English: "Milk", Category: CategoryFood},
	{ID: "chai", Urdu: "چائے", Pashto: "چای", English: "Tea", Category: CategoryFood},
	{ID: "phal", Urdu: "پھل", Pashto: "میوه", English: "Fruit", Category: CategoryFood},
	{ID: "sabzi", Urdu: "سبزی", Pashto: "سابه", English: "Vegetable", Category: CategoryFood},
	{ID: "namak", Urdu: "نمک", Pashto: "مالګه", English: "Salt", Category: CategoryFood},
	{ID: "cheeni", Urdu: "چینی", Pashto: "شکره", English: "Sugar", Category: CategoryFood},
	{ID: "tel", Urdu: "تیل", Pashto: "غوړ", English: "Oil", Category: CategoryFood},

	// ── Body ──
	{ID: "sar", Urdu: "سر", Pashto: "سر", English: "Head", Category: CategoryBody},
	{ID: "ankh", Urdu: "آنکھ", Pashto: "سترګه", English: "Eye", Category: CategoryBody},
	{ID: "kaan", Urdu: "کان", Pashto: "غوږ", English: "Ear", Category: CategoryBody},
	{ID: "naak", Urdu: "ناک", Pashto: "پزه", English: "Nose", Category: CategoryBody},
	{ID: "munh", Urdu: "منہ", Pashto: "خوله", English: "Mouth", Category: CategoryBody},
	{ID: "haath", Urdu: "ہاتھ", Pashto: "لاس", English: "Hand", Category: CategoryBody},
	{ID: "pair", Urdu: "پیر", Pashto: "پښه", English: "Foot", Category: CategoryBody},
	{ID: "dil", Urdu: "دل", Pashto: "زړه", English: "Heart", Category: CategoryBody},
	{ID: "pet", Urdu: "پیٹ", Pashto: "خیټه", English: "Stomach", Category: CategoryBody},
	{ID: "tang", Urdu: "ٹانگ", Pashto: "پښه", English: "Leg", Category: CategoryBody},

	// ── Colours ──
	{ID: "safed", Urdu: "سفید", Pashto: "سپین", English: "White", Category: CategoryColor},
	{ID: "kala", Urdu: "کالا", Pashto: "تور", English: "Black", Category: CategoryColor},
	{ID: "lal", Urdu: "لال", Pashto: "سور", English: "Red", Category: CategoryColor},
	{ID: "hara", Urdu: "ہرا", Pashto: "شین", English: "Green", Category: CategoryColor},
	{ID: "neela", Urdu: "نیلا", Pashto: "شین", English: "Blue", Category: CategoryColor},
	{ID: "peela", Urdu: "پیلا", Pashto: "ژیړ", English: "Yellow", Category: CategoryColor},
	{ID: "gulabi", Urdu: "گلابی", Pashto: "ګلابي", English: "Pink", Category: CategoryColor},
	{ID: "narangi", Urdu: "نارنگی", Pashto: "نارنجي", English: "Orange", Category: CategoryColor},

	// ── Numbers ──
	{ID: "ek", Urdu: "ایک", Pashto: "یو", English: "One", Category: CategoryNumber},
	{ID: "do", Urdu: "دو", Pashto: "دوه", English: "Two", Category: CategoryNumber},
	{ID: "teen", Urdu: "تین", Pashto: "درې", English: "Three", Category: CategoryNumber},
	{ID: "chaar", Urdu: "چار", Pashto: "څلور", English: "Four", Category: CategoryNumber},
	{ID: "paanch", Urdu: "پانچ", Pashto: "پنځه", English: "Five", Category: CategoryNumber},
	{ID: "che", Urdu: "چھ", Pashto: "شپږ", English: "Six", Category: CategoryNumber},
	{ID: "saat", Urdu: "سات", Pashto: "اووه", English: "Seven", Category: CategoryNumber},
	{ID: "aath", Urdu: "آٹھ", Pashto: "اته", English: "Eight", Category: CategoryNumber},
	{ID: "nau", Urdu: "نو", Pashto: "نهه", English: "Nine", Category: CategoryNumber},
	{ID: "das", Urdu: "دس", Pashto: "لس", English: "Ten", Category: CategoryNumber},

	// ── Emotions ──
	{ID: "khush", Urdu: "خوش", Pashto: "خوښ", English: "Happy", Category: CategoryEmotion},
	{ID: "udaas", Urdu: "اداس", Pashto: "خپه", English: "Sad", Category: CategoryEmotion},
	{ID: "gussa", Urdu: "غصہ", Pashto: "قهر", English: "Angry", Category: CategoryEmotion},
	{ID: "dar", Urdu: "ڈر", Pashto: "ویره", English: "Fear", Category: CategoryEmotion},
	{ID: "mohabbat", Urdu: "محبت", Pashto: "مینه", English: "Love", Category: CategoryEmotion},
	{ID: "thak_gaya", Urdu: "تھک گیا", Pashto: "ستړی یم", English: "Tired", Category: CategoryEmotion},
	{ID: "beemar", Urdu: "بیمار", Pashto: "ناروغ", English: "Sick", Category: CategoryEmotion},
	{ID: "sehat_mand", Urdu: "صحت مند", Pashto: "روغ", English: "Healthy", Category: CategoryEmotion},

	// ── Activities ──
	{ID: "uthna", Urdu: "اٹھنا", Pashto: "پاڅیدل", English: "Wake up", Category: CategoryActivity},
	{ID: "sona", Urdu: "سونا", Pashto: "ویده کیدل", English: "Sleep", Category: CategoryActivity},
	{ID: "khana_khana", Urdu: "کھانا کھانا", Pashto: "خواړه خوړل", English: "Eat food", Category: CategoryActivity},
	{ID: "paani_peena", Urdu: "پانی پینا", Pashto: "اوبه څښل", English: "Drink water", Category: CategoryActivity},
	{ID: "nahana", Urdu: "نہانا", Pashto: "حمام کول", English: "Take bath", Category: CategoryActivity},
	{ID: "parhna", Urdu: "پڑھنا", Pashto: "لوستل", English: "Read", Category: CategoryActivity},
	{ID: "likhna", Urdu: "لکھنا", Pashto: "لیکل", English: "Write", Category: CategoryActivity},
	{ID: "chalna", Urdu: "چلنا", Pashto: "تلل", English: "Walk", Category: CategoryActivity},
	{ID: "daura", Urdu: "دوڑنا", Pashto: "منډه کول", English: "Run", Category: CategoryActivity},
	{ID: "baitna", Urdu: "بیٹھنا", Pashto: "کښیناستل", English: "Sit", Category: CategoryActivity},

	// ── Education ──
	{ID: "school", Urdu: "اسکول", Pashto: "ښوونځی", English: "School", Category: CategoryEducation},
	{ID: "teacher", Urdu: "استاد", Pashto: "ښوونکی", English: "Teacher", Category: CategoryEducation},
	{ID: "student", Urdu: "طالب علم", Pashto: "زده کوونکی", English: "Student", Category: CategoryEducation},
	{ID: "exam", Urdu: "امتحان", Pashto: "ازموینه", English: "Examination", Category: CategoryEducation},
	{ID: "homework", Urdu: "گھر کا کام", Pashto: "د کور کار", English: "Homework", Category: CategoryEducation},
	{ID: "lesson", Urdu: "سبق", Pashto: "درس", English: "Lesson", Category: CategoryEducation},
	{ID: "university", Urdu: "یونیورسٹی", Pashto: "پوهنتون", English: "University", Category: CategoryEducation},
	{ID: "degree", Urdu: "ڈگری", Pashto: "سند", English: "Degree", Category: CategoryEducation},

	// ── Professions ──
	{ID: "doctor", Urdu: "ڈاکٹر", Pashto: "ډاکټر", English: "Doctor", Category: CategoryProfession},
	{ID: "engineer", Urdu: "انجینیر", Pashto: "انجنیر", English: "Engineer", Category: CategoryProfession},
	{ID: "lawyer", Urdu: "وکیل", Pashto: "وکیل", English: "Lawyer", Category: CategoryProfession},
	{ID: "police", Urdu: "پولیس", Pashto: "پولیس", English: "Police", Category: CategoryProfession},
	{ID: "driver", Urdu: "ڈرائیور", Pashto: "موټر چلوونکی", English: "Driver", Category: CategoryProfession},
	{ID: "shopkeeper", Urdu: "دکاندار", Pashto: "دکاندار", English: "Shopkeeper", Category: CategoryProfession},
	{ID: "farmer", Urdu: "کسان", Pashto: "بزګر", English: "Farmer", Category: CategoryProfession},
	{ID: "office", Urdu: "دفتر", Pashto: "دفتر", English: "Office", Category: CategoryProfession},

	// ── Transport ──
	{ID: "gari", Urdu: "گاڑی", Pashto: "موټر", English: "Car", Category: CategoryTransport},
	{ID: "bus", Urdu: "بس", Pashto: "بس", English: "Bus", Category: CategoryTransport},
	{ID: "rickshaw", Urdu: "رکشہ", Pashto: "رکشا", English: "Rickshaw", Category: CategoryTransport},
	{ID: "cycle", Urdu: "سائیکل", Pashto: "بایسکل", English: "Bicycle", Category: CategoryTransport},
	{ID: "train", Urdu: "ریل گاڑی", Pashto: "اورګاډی", English: "Train", Category: CategoryTransport},
	{ID: "plane", Urdu: "ہوائی جہاز", Pashto: "الوتکه", English: "Airplane", Category: CategoryTransport},

	// ── Time and weather ──
	{ID: "waqt", Urdu: "وقت", Pashto: "وخت", English: "Time", Category: CategoryTime},
	{ID: "din", Urdu: "دن", Pashto: "ورځ", English: "Day", Category: CategoryTime},
	{ID: "raat", Urdu: "رات", Pashto: "شپه", English: "Night", Category: CategoryTime},
	{ID: "subah", Urdu: "صبح", Pashto: "سهار", English: "Morning", Category: CategoryTime},
	{ID: "shaam", Urdu: "شام", Pashto: "ماښام", English: "Evening", Category: CategoryTime},
	{ID: "saal", Urdu: "سال", Pashto: "کال", English: "Year", Category: CategoryTime},
	{ID: "mahina", Urdu: "مہینہ", Pashto: "میاشت", English: "Month", Category: CategoryTime},
	{ID: "hafta", Urdu: "ہفتہ", Pashto: "اونۍ", English: "Week", Category: CategoryTime},
	{ID: "barish", Urdu: "بارش", Pashto: "باران", English: "Rain", Category: CategoryTime},
	{ID: "dhoop", Urdu: "دھوپ", Pashto: "لمر", English: "Sunshine", Category: CategoryTime},

	// ── Religion ──
	{ID: "namaz", Urdu: "نماز", Pashto: "لمونځ", English: "Prayer", Category: CategoryReligion},
	{ID: "quran", Urdu: "قرآن", Pashto: "قرآن", English: "Quran", Category: CategoryReligion},
	{ID: "masjid", Urdu: "مسجد", Pashto: "جومات", English: "Mosque", Category: CategoryReligion},
	{ID: "roza", Urdu: "روزہ", Pashto: "روژه", English: "Fast", Category: CategoryReligion},
	{ID: "zakat", Urdu: "زکات", Pashto: "زکات", English: "Charity", Category: CategoryReligion},
	{ID: "hajj", Urdu: "حج", Pashto: "حج", English: "Pilgrimage", Category: CategoryReligion},
	{ID: "eid", Urdu: "عید", Pashto: "اختر", English: "Festival", Category: CategoryReligion},

	// ── Verbs ──
	{ID: "jana", Urdu: "جانا", Pashto: "تلل", English: "Go", Category: CategoryVerb},
	{ID: "ana", Urdu: "آنا", Pashto: "راتلل", English: "Come", Category: CategoryVerb},
	{ID: "karna", Urdu: "کرنا", Pashto: "کول", English: "Do/Make", Category: CategoryVerb},
	{ID: "dekhna", Urdu: "دیکھنا", Pashto: "کتل", English: "See", Category: CategoryVerb},
	{ID: "sunna", Urdu: "سننا", Pashto: "اورېدل", English: "Listen", Category: CategoryVerb},
	{ID: "bolna", Urdu: "بولنا", Pashto: "ویل", English: "Speak", Category: CategoryVerb},
	{ID: "samjhna", Urdu: "سمجھنا", Pashto: "پوهیدل", English: "Understand", Category: CategoryVerb},
	{ID: "dena", Urdu: "دینا", Pashto: "ورکول", English: "Give", Category: CategoryVerb},
	{ID: "lena", Urdu: "لینا", Pashto: "اخیستل", English: "Take", Category: CategoryVerb},
	{ID: "kharidna", Urdu: "خریدنا", Pashto: "اخیستل", English: "Buy", Category: CategoryVerb},
}
