package questions

import "vineyard-quiz/internal/domain"

// Pool returns a copy of the pre-authored question bank: general wine
// knowledge followed by Northern Virginia questions.
func Pool() []domain.Question {
	out := make([]domain.Question, len(pool))
	for i, q := range pool {
		out[i] = q.Clone()
	}
	return out
}

var pool = []domain.Question{
	// General wine knowledge.
	{
		Question:      "Which of the following is a red grape varietal?",
		Options:       []string{"Chardonnay", "Sauvignon Blanc", "Merlot", "Pinot Grigio"},
		CorrectAnswer: "Merlot",
		Explanation:   "Merlot is a popular red grape varietal known for its soft, approachable wines.",
	},
	{
		Question: "What is 'terroir' in winemaking?",
		Options: []string{
			"A type of wine barrel",
			"The complete natural environment in which a wine is produced, including factors such as soil, topography, and climate.",
			"A winemaking technique",
			"A wine tasting term",
		},
		CorrectAnswer: "The complete natural environment in which a wine is produced, including factors such as soil, topography, and climate.",
		Explanation:   "Terroir refers to the unique combination of environmental factors, including climate, soil, and topography, and how they influence the wine's character.",
	},
	{
		Question:      "Which country is the largest producer of wine globally?",
		Options:       []string{"France", "Italy", "Spain", "United States"},
		CorrectAnswer: "Italy",
		Explanation:   "While France is famous for its wines, Italy consistently holds the title of the world's largest wine producer by volume.",
	},
	{
		Question:      "What is the primary grape used in traditional Champagne production?",
		Options:       []string{"Riesling", "Pinot Noir", "Syrah", "Zinfandel"},
		CorrectAnswer: "Pinot Noir",
		Explanation:   "Traditional Champagne is typically a blend of Chardonnay, Pinot Noir, and Pinot Meunier. Pinot Noir is one of the key red grapes used.",
	},
	{
		Question:      "Which of these wines is typically dry and crisp, often with notes of green apple and citrus?",
		Options:       []string{"Cabernet Sauvignon", "Chardonnay (oaked)", "Sauvignon Blanc", "Zinfandel"},
		CorrectAnswer: "Sauvignon Blanc",
		Explanation:   "Sauvignon Blanc is known for its high acidity and aromatic profile, often featuring notes of green apple, lime, and herbaceousness.",
	},
	{
		Question:      "What is the process of aging wine in oak barrels called?",
		Options:       []string{"Fermentation", "Malolactic fermentation", "Oaking", "Racking"},
		CorrectAnswer: "Oaking",
		Explanation:   "Oaking is the process of aging wine in oak barrels, which can impart flavors like vanilla, spice, and toast.",
	},
	{
		Question:      "Which wine region is famous for its Cabernet Sauvignon wines?",
		Options:       []string{"Bordeaux, France", "Napa Valley, USA", "Barossa Valley, Australia", "All of the above"},
		CorrectAnswer: "All of the above",
		Explanation:   "Cabernet Sauvignon is widely planted, and all listed regions are renowned for producing high-quality Cabernet Sauvignon wines.",
	},
	{
		Question:      "What is the ideal serving temperature for most red wines?",
		Options:       []string{"Chilled (40-45°F)", "Room temperature (68-72°F)", "Cool (60-65°F)", "Warm (75-80°F)"},
		CorrectAnswer: "Cool (60-65°F)",
		Explanation:   "Most red wines are best served slightly cooler than typical room temperature to highlight their fruit and acidity.",
	},
	{
		Question:      "Which of these is a sparkling wine from Spain?",
		Options:       []string{"Prosecco", "Champagne", "Cava", "Lambrusco"},
		CorrectAnswer: "Cava",
		Explanation:   "Cava is a popular sparkling wine from Spain, produced using the traditional method, similar to Champagne.",
	},
	{
		Question:      "What does 'tannin' refer to in wine?",
		Options:       []string{"Sweetness", "Acidity", "Bitterness and astringency", "Alcohol content"},
		CorrectAnswer: "Bitterness and astringency",
		Explanation:   "Tannins are compounds found in grape skins, seeds, and stems, contributing to a wine's bitterness, astringency, and structure.",
	},
	{
		Question:      "Which white grape is typically used to make dry, aromatic wines in the Loire Valley, France?",
		Options:       []string{"Chardonnay", "Sauvignon Blanc", "Pinot Gris", "Riesling"},
		CorrectAnswer: "Sauvignon Blanc",
		Explanation:   "Sauvignon Blanc is the key grape in Sancerre and Pouilly-Fumé, producing crisp, mineral-driven wines.",
	},
	{
		Question:      "Which of these is a sweet, fortified wine from Portugal?",
		Options:       []string{"Sherry", "Port", "Madeira", "Marsala"},
		CorrectAnswer: "Port",
		Explanation:   "Port is a sweet, fortified wine produced in the Douro Valley of northern Portugal.",
	},
	{
		Question:      "What is the process of converting grape juice into wine called?",
		Options:       []string{"Distillation", "Fermentation", "Maceration", "Clarification"},
		CorrectAnswer: "Fermentation",
		Explanation:   "Fermentation is the process by which yeast converts the sugars in grape juice into alcohol and carbon dioxide.",
	},
	{
		Question:      "Which red grape is known for its light body, high acidity, and red fruit flavors, often associated with Burgundy?",
		Options:       []string{"Cabernet Sauvignon", "Merlot", "Pinot Noir", "Syrah"},
		CorrectAnswer: "Pinot Noir",
		Explanation:   "Pinot Noir is a delicate red grape that thrives in cooler climates and is the primary grape of Burgundy, France.",
	},
	{
		Question:      "Which of these is a common fault in wine, often described as smelling like wet cardboard or a moldy basement?",
		Options:       []string{"Brettanomyces", "Cork taint (TCA)", "Oxidation", "Volatile Acidity"},
		CorrectAnswer: "Cork taint (TCA)",
		Explanation:   "Cork taint, caused by TCA, is a common wine fault that imparts unpleasant musty or moldy aromas.",
	},
	{
		Question:      "What is the primary grape used in the production of Chianti wine?",
		Options:       []string{"Nebbiolo", "Barbera", "Sangiovese", "Montepulciano"},
		CorrectAnswer: "Sangiovese",
		Explanation:   "Sangiovese is the signature red grape of Tuscany, Italy, and the primary component of Chianti wine.",
	},
	{
		Question:      "This dark-skinned grape is called Shiraz in Australia and makes full-bodied, spicy reds in the Rhône Valley. What is its name?",
		Options:       []string{"Pinot Noir", "Merlot", "Syrah", "Zinfandel"},
		CorrectAnswer: "Syrah",
		Explanation:   "Syrah (or Shiraz) is a versatile dark-skinned grape known for powerful, peppery, dark-fruited wines.",
	},

	// Northern Virginia.
	{
		Question:      "What is Virginia's official state grape?",
		Options:       []string{"Chardonnay", "Norton", "Viognier", "Cabernet Franc"},
		CorrectAnswer: "Viognier",
		Explanation:   "Viognier is Virginia's official state grape, known for aromatic, full-bodied white wines that thrive in the state's climate.",
	},
	{
		Question:      "Which Virginia AVA is known for its high-quality Chardonnay and Cabernet Franc, located near the town of Middleburg?",
		Options:       []string{"Monticello AVA", "Virginia Peninsula AVA", "Middleburg AVA", "Shenandoah Valley AVA"},
		CorrectAnswer: "Middleburg AVA",
		Explanation:   "The Middleburg AVA is a prominent wine region in Northern Virginia, known for its rolling hills and diverse soils.",
	},
	{
		Question:      "What is a common challenge for grape growing in Northern Virginia's climate?",
		Options:       []string{"Too much sun", "Lack of rainfall", "Humidity and late spring frosts", "Too cold in winter"},
		CorrectAnswer: "Humidity and late spring frosts",
		Explanation:   "Humid summers and unpredictable spring frosts pose significant challenges for Virginia growers, requiring careful vineyard management.",
	},
	{
		Question:      "Many Virginia wineries are located in Loudoun County. What is Loudoun County often called in relation to wine?",
		Options:       []string{"Virginia's Wine Coast", "Virginia's Wine Gateway", "DC's Wine Country®", "Virginia's Wine Capital"},
		CorrectAnswer: "DC's Wine Country®",
		Explanation:   "Loudoun County is home to over 40 wineries and is widely recognized as DC's Wine Country®.",
	},
	{
		Question:      "What is a common red grape varietal grown in Northern Virginia, known for its deep color and firm tannins?",
		Options:       []string{"Pinot Noir", "Petit Verdot", "Gamay", "Zinfandel"},
		CorrectAnswer: "Petit Verdot",
		Explanation:   "Petit Verdot, traditionally a Bordeaux blending grape, has found success in Virginia as a standalone varietal.",
	},
	{
		Question:      "Which historical figure is credited with early attempts to grow European grapes in Virginia?",
		Options:       []string{"George Washington", "Thomas Jefferson", "James Madison", "Patrick Henry"},
		CorrectAnswer: "Thomas Jefferson",
		Explanation:   "Thomas Jefferson was a passionate advocate for viticulture and tried to establish European grapevines at Monticello.",
	},
	{
		Question:      "What is a popular event often hosted by Northern Virginia wineries in the fall?",
		Options:       []string{"Spring Blossom Festival", "Summer Jazz Concerts", "Harvest Festivals and Grape Stomps", "Winter Sledding Competitions"},
		CorrectAnswer: "Harvest Festivals and Grape Stomps",
		Explanation:   "Fall is harvest season, and many wineries celebrate with festivals, grape stomps, and other family-friendly events.",
	},
	{
		Question:      "Which type of soil is common in some Northern Virginia vineyards, contributing to mineral notes in wines?",
		Options:       []string{"Sandy soil", "Clay soil", "Loamy soil", "Slate or rocky soil"},
		CorrectAnswer: "Slate or rocky soil",
		Explanation:   "Parts of Northern Virginia, particularly the foothills, have rocky or slate-rich soils that can impart distinct minerality.",
	},
	{
		Question:      "Why do many Virginia vineyards use netting over their vines late in the season?",
		Options:       []string{"To keep the grapes warm", "To protect grapes from birds and animals", "To reduce sunlight", "To collect rainwater"},
		CorrectAnswer: "To protect grapes from birds and animals",
		Explanation:   "Netting is a common solution used by vineyards to prevent birds and other wildlife from consuming ripening grapes.",
	},
}
