package areacode

// allCodes lists every in-service NANP NPA.
// Source: NANPA geographic and non-geographic NPA reports.
var allCodes = [...]int{
	201, 202, 203, 204, 205, 206, 207, 208, 209, 210, 211, 212, 213, 214, 215,
	216, 217, 218, 219, 220, 223, 224, 225, 226, 227, 228, 229, 231, 234, 235,
	236, 239, 240, 242, 246, 248, 249, 250, 251, 252, 253, 254, 256, 260, 262,
	263, 264, 267, 268, 269, 270, 272, 274, 276, 278, 279, 281, 283, 284, 289,

	301, 302, 303, 304, 305, 306, 307, 308, 309, 310, 311, 312, 313, 314, 315,
	316, 317, 318, 319, 320, 321, 323, 325, 326, 327, 329, 330, 331, 332, 334,
	336, 337, 339, 340, 341, 343, 345, 346, 347, 350, 351, 352, 353, 354, 360,
	361, 363, 364, 365, 367, 368, 369, 380, 381, 382, 385, 386, 387,

	401, 402, 403, 404, 405, 406, 407, 408, 409, 410, 411, 412, 413, 414, 415,
	416, 417, 418, 419, 423, 424, 425, 428, 430, 431, 432, 434, 435, 437, 438,
	440, 441, 442, 443, 445, 447, 448, 450, 456, 458, 463, 464, 468, 469, 470,
	472, 473, 474, 475, 478, 479, 480, 484,

	500, 501, 502, 503, 504, 505, 506, 507, 508, 509, 510, 511, 512, 513, 514,
	515, 516, 517, 518, 519, 520, 521, 522, 523, 524, 525, 526, 527, 528, 529,
	530, 531, 532, 533, 534, 535, 538, 539, 540, 541, 544, 548, 551, 557, 559,
	561, 562, 563, 564, 566, 567, 570, 571, 572, 573, 574, 575, 577, 578, 579,
	580, 581, 582, 584, 585, 586, 587, 588,

	600, 601, 602, 603, 604, 605, 606, 607, 608, 609, 610, 612, 613, 614, 615,
	616, 617, 618, 619, 620, 622, 623, 624, 626, 628, 629, 630, 631, 633, 636,
	639, 640, 641, 645, 646, 647, 649, 650, 651, 656, 657, 658, 659, 660, 661,
	662, 664, 667, 669, 670, 671, 672, 678, 679, 680, 681, 682, 683, 684, 686,
	689,

	700, 701, 702, 703, 704, 705, 706, 707, 708, 709, 710, 711, 712, 713, 714,
	715, 716, 717, 718, 719, 720, 721, 724, 725, 726, 727, 728, 730, 731, 732,
	734, 737, 740, 742, 743, 747, 753, 754, 757, 758, 760, 762, 763, 765, 767,
	769, 770, 771, 772, 773, 774, 775, 778, 779, 780, 781, 782, 784, 785, 786,
	787,

	800, 801, 802, 803, 804, 805, 806, 807, 808, 809, 810, 811, 812, 813, 814,
	815, 816, 817, 818, 819, 820, 825, 826, 828, 829, 830, 831, 832, 833, 835,
	838, 839, 840, 843, 844, 845, 847, 848, 849, 850, 854, 855, 856, 857, 858,
	859, 860, 861, 862, 863, 864, 865, 866, 867, 868, 869, 870, 872, 873, 876,
	877, 878, 879, 888, 889,

	900, 901, 902, 903, 904, 905, 906, 907, 908, 909, 910, 912, 913, 914, 915,
	916, 917, 918, 919, 920, 925, 927, 928, 929, 930, 931, 934, 935, 936, 937,
	938, 939, 940, 941, 943, 945, 947, 948, 949, 951, 952, 954, 956, 959, 970,
	971, 972, 973, 975, 978, 979, 980, 983, 984, 985, 986, 989,
}

// tollFreeCodes lists the in-service toll-free NPAs. Every member is also in nonGeographicCodes.
var tollFreeCodes = [...]int{
	800, 833, 844, 855, 866, 877, 888,
}

// nonGeographicCodes lists in-service NPAs that are not tied to a location, toll-free included.
var nonGeographicCodes = [...]int{
	500, 521, 522, 523, 524, 525, 526, 527, 528, 529, 533, 544, 566, 577, 588,

	600, 622, 633,

	700, 710,

	800, 833, 844, 855, 866, 877, 888,

	900,
}

// canadianCodes lists in-service NPAs administered by the Canadian Numbering Administrator.
var canadianCodes = [...]int{
	204, 226, 236, 249, 250, 263, 289,

	306, 343, 354, 365, 367, 368, 382,

	403, 416, 418, 428, 431, 437, 438, 450, 468, 474,

	506, 514, 519, 548, 579, 581, 584, 587,

	604, 613, 639, 647, 672, 683,

	705, 709, 742, 753, 778, 780, 782,

	807, 819, 825, 867, 873, 879,

	902, 905,
}

// countryOrTerritoryCodes lists geographic NPAs outside the US and Canada: Caribbean nations,
// Bermuda and the US territories.
var countryOrTerritoryCodes = [...]int{
	242, 246, 264, 268, 284,

	340, 345,

	441, 473,

	649, 664, 670, 671, 684,

	721, 758, 767, 784, 787,

	809, 829, 849, 868, 869, 876,

	939,
}
