package model

const (
	Dovecot                 Technology = "dovecot"
	Exim                    Technology = "exim"
	MariaDB                 Technology = "mariadb"
	MySQL                   Technology = "mysql"
	OpenSSH                 Technology = "openssh"
	ProFTPD                 Technology = "proftpd"
	PureFTPd                Technology = "pureftpd"
	OS                      Technology = "os"
	Ubuntu                  Technology = "ubuntu"
	Debian                  Technology = "debian"
	CentOS                  Technology = "centos"
	Fedora                  Technology = "fedora"
	Unix                    Technology = "unix"
	OracleLinux             Technology = "oraclelinux"
	FreeBSD                 Technology = "freebsd"
	OpenBSD                 Technology = "openbsd"
	NetBSD                  Technology = "netbsd"
	AlmaLinux               Technology = "almalinux"
	PHP                     Technology = "php"
	PhpMyAdmin              Technology = "phpmyadmin"
	Typo3                   Technology = "typo3"
	WordPress               Technology = "wordpress"
	Drupal                  Technology = "drupal"
	Httpd                   Technology = "httpd"
	Tomcat                  Technology = "tomcat"
	Nginx                   Technology = "nginx"
	OpenSSL                 Technology = "openssl"
	JQuery                  Technology = "jquery"
	ReactJS                 Technology = "reactjs"
	Handlebars              Technology = "handlebars"
	Lodash                  Technology = "lodash"
	AngularJS               Technology = "angularjs"
	Gsap                    Technology = "gsap"
	Bootstrap               Technology = "bootstrap"
	Angular                 Technology = "angular"
	Plesk                   Technology = "plesk"
	CKEditor                Technology = "ckeditor"
	Highcharts              Technology = "highcharts"
	WPPYoastSEO             Technology = "yoastseo"
	WPPRevSlider            Technology = "revslider"
	WPPJSComposer           Technology = "jscomposer"
	WPPContactForm          Technology = "contactform"
	Melis                   Technology = "melis"
	WPPElementor            Technology = "elementor"
	WPPElementsReadyLite    Technology = "elementreadylite"
	WPPGTranslate           Technology = "gtranslate"
	WPPWooCommerce          Technology = "woocommerce"
	WPTDivi                 Technology = "divi"
	WPPClassicEditor        Technology = "classiceditor"
	WPPAkismet              Technology = "akismet"
	WPPWpformsLite          Technology = "wpformslite"
	WPPAllInOneWpMigration  Technology = "allinonewpmigration"
	WPPReallySimpleSSL      Technology = "reallysimplessl"
	WPPJetpack              Technology = "jetpack"
	WPPLiteSpeedCache       Technology = "litespeedcache"
	WPPAllInOneSEO          Technology = "allinoneseo"
	WPPWordfence            Technology = "wordfence"
	WPPWpMailSmtp           Technology = "wpmailsmtp"
	WPPMc4wp                Technology = "mc4wp"
	WPPSpectra              Technology = "spectra"
	SquirrelMail            Technology = "squirrelmail"
	PhoneSystem3CX          Technology = "phonesystem3cx"
	Prestashop              Technology = "prestashop"
	Jira                    Technology = "jira"
	Twisted                 Technology = "twisted"
	TwistedWeb              Technology = "twistedweb"
	Symfony                 Technology = "symfony"
	TinyMCE                 Technology = "tinymce"
	JQueryUI                Technology = "jqueryui"
	WPPLayerSlider          Technology = "layerslider"
	WPPWpMembers            Technology = "wpmembers"
	WPPForminator           Technology = "forminator"
	Horde                   Technology = "horde"
	Knockout                Technology = "knockout"
	WPPWpSuperCache         Technology = "wpsupercache"
	WPPEmailSubscribers     Technology = "emailsubscribers"
	WPPBetterSearchReplace  Technology = "bettersearchreplace"
	WPPAdvancedCustomFields Technology = "advancedcustomfields"
)

// probePath 额外探测路径，空路径表示主URL
type probePath struct {
	path         string
	fetchScripts bool
}

// techInfo 技术目录条目
type techInfo struct {
	id      Technology
	name    string
	scans   []ScanType
	part    string
	vendor  string
	product string
	ports   []int
	paths   []probePath
}

var (
	tcpScans  = []ScanType{ScanTCP}
	httpScans = []ScanType{ScanHTTP}
	bothScans = []ScanType{ScanTCP, ScanHTTP}
)

// 主URL，不抓取脚本
var mainPage = probePath{path: "", fetchScripts: false}

// 错误页面和 phpMyAdmin 目录经常暴露服务器签名
var serverSignaturePaths = []probePath{
	mainPage,
	{path: "/pageNotFoundNotFound"},
	{path: "/phpmyadmin/"},
}

// wpContent 生成 WordPress 插件或主题文件的绝对与相对路径
func wpContent(file string, withMain bool) []probePath {
	var paths []probePath
	if withMain {
		paths = append(paths, mainPage)
	}
	return append(paths,
		probePath{path: "/wp-content/" + file},
		probePath{path: "wp-content/" + file},
	)
}

func wpPlugin(slug string) []probePath {
	return wpContent("plugins/"+slug+"/readme.txt", false)
}

func app(id Technology, name, vendor, product string, paths ...probePath) techInfo {
	return techInfo{id: id, name: name, scans: httpScans, part: "a", vendor: vendor, product: product, paths: paths}
}

func service(id Technology, name, vendor, product string, ports ...int) techInfo {
	return techInfo{id: id, name: name, scans: tcpScans, part: "a", vendor: vendor, product: product, ports: ports}
}

func system(id Technology, name, vendor, product string) techInfo {
	return techInfo{id: id, name: name, scans: httpScans, part: "o", vendor: vendor, product: product}
}

// catalog 技术目录
var catalog = []techInfo{
	service(Dovecot, "Dovecot", "dovecot", "dovecot", 110, 143),
	service(Exim, "Exim", "exim", "exim", 25, 587),
	service(MariaDB, "MariaDB", "mariadb", "mariadb", 3306),
	service(MySQL, "MySQL", "oracle", "mysql_server", 3306),
	service(OpenSSH, "OpenSSH", "openbsd", "openssh", 22),
	service(ProFTPD, "ProFTPD", "proftpd_project", "proftpd", 21),
	service(PureFTPd, "PureFTPd", "pureftpd", "pure-ftpd", 21),
	{id: OS, name: "OS", scans: bothScans, part: "o", ports: []int{22}},
	system(Ubuntu, "Ubuntu", "canonical", "ubuntu_linux"),
	system(Debian, "Debian", "debian", "debian_linux"),
	system(CentOS, "CentOS", "centos", "centos"),
	system(Fedora, "Fedora", "fedoraproject", "fedora"),
	system(Unix, "Unix", "unix", "unix"),
	system(OracleLinux, "OracleLinux", "oracle", "linux"),
	system(FreeBSD, "FreeBSD", "freebsd", "freebsd"),
	system(OpenBSD, "OpenBSD", "openbsd", "openbsd"),
	system(NetBSD, "NetBSD", "netbsd", "netbsd"),
	system(AlmaLinux, "AlmaLinux", "alma", "linux"),
	app(PHP, "PHP", "php", "php",
		mainPage,
		probePath{path: "/phpinfo.php"},
		probePath{path: "/info.php"},
		probePath{path: "phpinfo.php"},
		probePath{path: "info.php"},
		probePath{path: "/pageNotFoundNotFound"},
		probePath{path: "/phpmyadmin/"},
		probePath{path: "_profiler/phpinfo"},
	),
	app(PhpMyAdmin, "phpMyAdmin", "phpmyadmin", "phpmyadmin",
		probePath{path: "doc/html/index.html"},
		probePath{path: "/phpmyadmin/doc/html/index.html"},
		probePath{path: "/mysql/doc/html/index.html"},
		probePath{path: "ChangeLog"},
		probePath{path: "/phpmyadmin/ChangeLog"},
		probePath{path: "/phpMyAdmin/ChangeLog"},
		probePath{path: "/phpMyAdmin/doc/html/index.html"},
	),
	app(Typo3, "TYPO3", "typo3", "typo3",
		probePath{path: "typo3/sysext/install/composer.json"},
		probePath{path: "typo3/sysext/linkvalidator/composer.json"},
	),
	app(WordPress, "WordPress", "wordpress", "wordpress",
		mainPage,
		probePath{path: "wp-admin/install.php"},
		probePath{path: "wp-login.php"},
	),
	app(Drupal, "Drupal", "drupal", "drupal"),
	app(Httpd, "Apache httpd", "apache", "http_server", serverSignaturePaths...),
	app(Tomcat, "Tomcat", "apache", "tomcat", probePath{path: "/pageNotFoundNotFound"}),
	app(Nginx, "Nginx", "nginx", "nginx", serverSignaturePaths...),
	app(OpenSSL, "OpenSSL", "openssl", "openssl", serverSignaturePaths...),
	app(JQuery, "jQuery", "jquery", "jquery"),
	app(ReactJS, "React", "facebook", "react"),
	app(Handlebars, "Handlebars", "handlebarsjs", "handlebars"),
	app(Lodash, "Lodash", "lodash", "lodash"),
	app(AngularJS, "AngularJS", "angularjs", "angular"),
	app(Gsap, "GSAP", "greensock", "greensock_animation_platform"),
	app(Bootstrap, "Bootstrap", "getbootstrap", "bootstrap"),
	app(Angular, "Angular", "angular", "angular"),
	app(Plesk, "Plesk", "plesk", "plesk", probePath{path: "/login_up.php"}),
	app(CKEditor, "CKEditor", "ckeditor", "ckeditor"),
	app(Highcharts, "Highcharts", "highcharts", "highcharts"),
	app(WPPYoastSEO, "YoastSEO", "yoast", "yoastseo",
		wpContent("plugins/wordpress-seo/readme.txt", true)...),
	app(WPPRevSlider, "SliderRevolution", "themepunch", "slider_revolution"),
	app(WPPJSComposer, "JSComposer", "wpbakery", "page_builder"),
	app(WPPContactForm, "ContactForm7", "rocklobster", "contact_form_7", wpPlugin("contact-form-7")...),
	app(Melis, "Melis", "melistechnology", "meliscms", probePath{path: "/melis/login"}),
	app(WPPElementor, "Elementor", "webtechstreet", "elementor_addon_elements", wpPlugin("elementor")...),
	app(WPPElementsReadyLite, "ElementsReadyLite", "", "", wpPlugin("element-ready-lite")...),
	app(WPPGTranslate, "GTranslate", "gtranslate", "translate_wordpress_with_gtranslate", wpPlugin("gtranslate")...),
	app(WPPWooCommerce, "WooCommerce", "woocommerce", "woocommerce"),
	app(WPTDivi, "Divi", "elegant_themes", "divi", wpContent("themes/Divi/style.css", false)...),
	app(WPPClassicEditor, "ClassicEditor", "", "", wpPlugin("classic-editor")...),
	app(WPPAkismet, "Akismet", "automattic", "akismet", wpPlugin("akismet")...),
	app(WPPWpformsLite, "WpFormsLite", "wpforms", "wpforms", wpPlugin("wpforms-lite")...),
	app(WPPAllInOneWpMigration, "AllInOneWpMigration", "servmask", "all-in-one_wp_migration", wpPlugin("all-in-one-wp-migration")...),
	app(WPPReallySimpleSSL, "ReallySimpleSSL", "really-simple-plugins", "really-simple-ssl", wpPlugin("really-simple-ssl")...),
	app(WPPJetpack, "Jetpack", "automattic", "jetpack", wpPlugin("jetpack")...),
	app(WPPLiteSpeedCache, "LiteSpeedCache", "litespeedtech", "litespeed_cache", wpPlugin("litespeed-cache")...),
	app(WPPAllInOneSEO, "AllInOneSEO", "aioseo", "all_in_one_seo",
		wpContent("plugins/all-in-one-seo-pack/readme.txt", true)...),
	app(WPPWordfence, "Wordfence", "", "", wpPlugin("wordfence")...),
	app(WPPWpMailSmtp, "WpMailSmtp", "wpforms", "wp_mail_smtp", wpPlugin("wp-mail-smtp")...),
	app(WPPMc4wp, "Mc4wp", "mailchimp_for_wordpress_project", "mailchimp_for_wordpress", wpPlugin("mailchimp-for-wp")...),
	app(WPPSpectra, "Spectra", "brainstormforce", "spectra", wpPlugin("ultimate-addons-for-gutenberg")...),
	app(SquirrelMail, "SquirrelMail", "squirrelmail", "squirrelmail",
		probePath{path: "src/login.php"},
		probePath{path: "/squirrelmail/src/login.php"},
	),
	app(PhoneSystem3CX, "PhoneSystem3CX", "3cx", "3cx", probePath{path: "/webclient/", fetchScripts: true}),
	app(Prestashop, "Prestashop", "prestashop", "prestashop", probePath{path: "/docs/CHANGELOG.txt"}),
	app(Jira, "Jira", "atlassian", "jira"),
	app(Twisted, "Twisted", "twistedmatrix", "twisted"),
	app(TwistedWeb, "TwistedWeb", "twistedmatrix", "twistedweb"),
	app(Symfony, "Symfony", "sensiolabs", "symfony", mainPage, probePath{path: "/app_dev.php"}),
	app(TinyMCE, "TinyMCE", "tiny", "tinymce"),
	app(JQueryUI, "jQueryUI", "jquery", "jquery_ui"),
	app(WPPLayerSlider, "LayerSlider", "layslider", "layslider",
		append(
			wpContent("plugins/LayerSlider/static/layerslider/js/layerslider.kreaturamedia.jquery.js", false),
			wpContent("plugins/LayerSlider/static/js/layerslider.kreaturamedia.jquery.js", false)...,
		)...),
	app(WPPWpMembers, "WpMembers", "wp-members_project", "wp-members", wpPlugin("wp-members")...),
	app(WPPForminator, "Forminator", "incsub", "forminator", wpPlugin("forminator")...),
	app(Horde, "Horde", "horde", "groupware",
		probePath{path: "/horde/services/help/index.php?module=horde&show=menu"},
		probePath{path: "horde/services/help/index.php?module=horde&show=menu"},
	),
	app(Knockout, "Knockout", "knockoutjs", "knockout"),
	app(WPPWpSuperCache, "WpSuperCache", "automattic", "wp_super_cache", wpPlugin("wp-super-cache")...),
	app(WPPEmailSubscribers, "EmailSubscribers", "icegram", "email_subscribers", wpPlugin("email-subscribers")...),
	app(WPPBetterSearchReplace, "BetterSearchReplace", "wpengine", "better_search_replace", wpPlugin("better-search-replace")...),
	app(WPPAdvancedCustomFields, "AdvancedCustomFields", "advancedcustomfields", "advanced_custom_fields", wpPlugin("advanced-custom-fields")...),
}

var catalogIndex = buildCatalogIndex()

func buildCatalogIndex() map[Technology]techInfo {
	index := make(map[Technology]techInfo, len(catalog))
	for _, info := range catalog {
		index[info.id] = info
	}
	return index
}
